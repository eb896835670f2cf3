/*
Package upstream is the client for the external attendance REST API.

PURPOSE:
  The remote backend owns authentication, the employee roster, and the
  raw punch records; this process is a presentation layer over it. The
  client wraps login and the CRUD surface the dashboard needs, decodes
  the tolerant wire shapes (wire.go), and hands plain engine types back.

CREDENTIALS:
  Credentials are an explicit value passed at construction - never read
  from ambient process-wide storage at call time. The bearer token the
  backend issues is held inside the client; when it looks like a JWT its
  expiry claim is inspected (without signature verification, the server
  verifies) so the client can re-login proactively instead of failing a
  request first.

ERROR POLICY:
  Network failures, auth failures and 5xx responses wrap ErrUnavailable.
  The engine has no opinion about them: callers fall back to the cached
  snapshot and surface staleness, they never block a render on a retry.

SEE ALSO:
  - wire.go: Payload decoding
  - store/: Snapshot cache the API layer falls back to
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
)

// ErrUnavailable wraps every transport, auth and server-side failure.
var ErrUnavailable = errors.New("upstream unavailable")

// Credentials authenticate this process against the backend.
type Credentials struct {
	Email    string
	Password string
}

// Client talks to the attendance backend.
type Client struct {
	base  string
	creds Credentials
	http  *http.Client
	log   *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New builds a client for the given base URL. The logger may not be nil;
// pass zap.NewNop() to silence it.
func New(baseURL string, creds Credentials, log *zap.Logger) *Client {
	return &Client{
		base:  baseURL,
		creds: creds,
		http:  &http.Client{Timeout: 15 * time.Second},
		log:   log,
	}
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Login authenticates and stores the bearer token for later calls.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email": c.creds.Email,
		"senha": c.creds.Password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: login returned %d", ErrUnavailable, resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		return fmt.Errorf("%w: login response missing token", ErrUnavailable)
	}

	c.mu.Lock()
	c.token = out.Token
	c.tokenExpiry = tokenExpiry(out.Token)
	c.mu.Unlock()

	c.log.Info("upstream login ok", zap.Time("token_expiry", c.tokenExpiry))
	return nil
}

// tokenExpiry peeks at the exp claim of a JWT without verifying the
// signature (the server verifies; we only schedule re-login). Opaque
// tokens get a conservative one-hour horizon.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return time.Now().Add(time.Hour)
}

// ensureToken re-logs-in when the token is absent or about to expire.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expiry := c.token, c.tokenExpiry
	c.mu.Unlock()

	if token != "" && time.Until(expiry) > time.Minute {
		return token, nil
	}
	if err := c.Login(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	token = c.token
	c.mu.Unlock()
	return token, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) do(ctx context.Context, method, path string, body any, header http.Header) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrUnavailable, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("upstream call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, path, resp.StatusCode)
	}
	return payload, nil
}

// =============================================================================
// PUNCH RECORDS
// =============================================================================

// ListPunches fetches every raw attendance record.
func (c *Client) ListPunches(ctx context.Context) ([]punch.ClockEvent, DecodeStats, error) {
	payload, err := c.do(ctx, http.MethodGet, "/registros", nil, nil)
	if err != nil {
		return nil, DecodeStats{}, err
	}
	events, stats, err := DecodeRecords(payload)
	if err != nil {
		return nil, stats, err
	}
	if stats.SynthesizedIDs > 0 || stats.UnknownKinds > 0 {
		c.log.Warn("tolerated wire records",
			zap.Int("synthesized_ids", stats.SynthesizedIDs),
			zap.Int("id_collisions", stats.IDCollisions),
			zap.Int("unknown_kinds", stats.UnknownKinds))
	}
	return events, stats, nil
}

// CreatePunch registers a manual punch. An idempotency key guards
// against the dashboard double-submitting a form.
func (c *Client) CreatePunch(ctx context.Context, employeeID punch.EmployeeID, at time.Time, kind punch.EventKind) error {
	header := http.Header{"Idempotency-Key": []string{uuid.NewString()}}
	_, err := c.do(ctx, http.MethodPost, "/registros", map[string]string{
		"funcionario_id": string(employeeID),
		"data_hora":      at.UTC().Format("2006-01-02T15:04:05"),
		"tipo":           string(kind),
	}, header)
	return err
}

// DeletePunch removes one record by its registro_id.
func (c *Client) DeletePunch(ctx context.Context, id punch.RecordID) error {
	_, err := c.do(ctx, http.MethodDelete, "/registros/"+string(id), nil, nil)
	return err
}

// =============================================================================
// EMPLOYEE ROSTER
// =============================================================================

// ListEmployees fetches the roster.
func (c *Client) ListEmployees(ctx context.Context) ([]roster.Employee, error) {
	payload, err := c.do(ctx, http.MethodGet, "/funcionarios", nil, nil)
	if err != nil {
		return nil, err
	}
	return DecodeEmployees(payload)
}

// CreateEmployee adds a roster entry.
func (c *Client) CreateEmployee(ctx context.Context, e roster.Employee) error {
	_, err := c.do(ctx, http.MethodPost, "/funcionarios", e, nil)
	return err
}

// UpdateEmployee replaces a roster entry.
func (c *Client) UpdateEmployee(ctx context.Context, e roster.Employee) error {
	_, err := c.do(ctx, http.MethodPut, "/funcionarios/"+e.ID, e, nil)
	return err
}

// DeleteEmployee removes a roster entry.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/funcionarios/"+id, nil, nil)
	return err
}
