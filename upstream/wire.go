package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/roster"
)

// =============================================================================
// WIRE DECODE - Tolerant parsing of the upstream record shapes
// =============================================================================
//
// The backend answers either with a bare JSON array or with the array
// wrapped in an object ({"registros": [...]}, older paths use "data").
// Optional fields are simply absent; "saída" sometimes arrives without
// the accent. Decoding never rejects a batch because of one bad record.

// wireRecord mirrors one raw attendance record on the wire.
type wireRecord struct {
	RegistroID      string `json:"registro_id"`
	FuncionarioID   string `json:"funcionario_id"`
	FuncionarioNome string `json:"funcionario_nome"`
	DataHora        string `json:"data_hora"`
	Tipo            string `json:"tipo"`
	EmpresaNome     string `json:"empresa_nome"`
}

type recordEnvelope struct {
	Registros []wireRecord `json:"registros"`
	Data      []wireRecord `json:"data"`
}

// DecodeStats reports what the decoder had to tolerate.
type DecodeStats struct {
	// SynthesizedIDs counts records that arrived without registro_id and
	// got the employeeID+timestamp fallback.
	SynthesizedIDs int

	// IDCollisions counts synthesized IDs that collided with an ID
	// already seen in the batch. A collision means deletion by ID is
	// ambiguous for those records.
	IDCollisions int

	// UnknownKinds counts records whose tipo was neither entrada nor
	// saída; they are dropped, since pairing cannot place them.
	UnknownKinds int
}

// DecodeRecords parses a punch-record payload in either wire shape.
func DecodeRecords(payload []byte) ([]punch.ClockEvent, DecodeStats, error) {
	var raw []wireRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		var env recordEnvelope
		if envErr := json.Unmarshal(payload, &env); envErr != nil {
			return nil, DecodeStats{}, fmt.Errorf("unrecognized record payload: %w", err)
		}
		raw = env.Registros
		if raw == nil {
			raw = env.Data
		}
	}

	var stats DecodeStats
	seen := make(map[punch.RecordID]bool, len(raw))
	events := make([]punch.ClockEvent, 0, len(raw))
	for _, r := range raw {
		kind, ok := normalizeKind(r.Tipo)
		if !ok {
			stats.UnknownKinds++
			continue
		}

		id := punch.RecordID(r.RegistroID)
		if id == "" {
			// Last-resort fallback, not a uniqueness guarantee.
			id = punch.RecordID(r.FuncionarioID + "@" + r.DataHora)
			stats.SynthesizedIDs++
			if seen[id] {
				stats.IDCollisions++
			}
		}
		seen[id] = true

		events = append(events, punch.ClockEvent{
			RecordID:     id,
			EmployeeID:   punch.EmployeeID(r.FuncionarioID),
			EmployeeName: r.FuncionarioNome,
			CompanyName:  r.EmpresaNome,
			Kind:         kind,
			Raw:          r.DataHora,
		})
	}
	return events, stats, nil
}

func normalizeKind(tipo string) (punch.EventKind, bool) {
	switch tipo {
	case "entrada":
		return punch.KindClockIn, true
	case "saída", "saida":
		return punch.KindClockOut, true
	default:
		return "", false
	}
}

type employeeEnvelope struct {
	Funcionarios []roster.Employee `json:"funcionarios"`
	Data         []roster.Employee `json:"data"`
}

// DecodeEmployees parses a roster payload in either wire shape.
func DecodeEmployees(payload []byte) ([]roster.Employee, error) {
	var employees []roster.Employee
	if err := json.Unmarshal(payload, &employees); err != nil {
		var env employeeEnvelope
		if envErr := json.Unmarshal(payload, &env); envErr != nil {
			return nil, fmt.Errorf("unrecognized roster payload: %w", err)
		}
		employees = env.Funcionarios
		if employees == nil {
			employees = env.Data
		}
	}
	return employees, nil
}
