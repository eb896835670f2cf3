/*
Package report is the email-report boundary.

PURPOSE:
  The dashboard offers "send report by email". Actual delivery belongs
  to an external collaborator (SMTP relay, transactional mail API); this
  package owns only the report body and the seam. LogMailer is the
  development stub: it renders the report and logs it instead of
  sending, the same pattern as a stdout audit logger.
*/
package report

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/attendance-engine/punch"
)

// Mailer delivers a rendered summary report.
type Mailer interface {
	SendSummary(ctx context.Context, to string, subject string, summaries []punch.EmployeeSummary) error
}

// RenderSummary builds the plain-text report body shared by every
// Mailer implementation.
func RenderSummary(subject string, summaries []punch.EmployeeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", subject)
	if len(summaries) == 0 {
		b.WriteString("Nenhum registro no período.\n")
		return b.String()
	}
	for _, s := range summaries {
		name := s.EmployeeName
		if name == "" {
			name = string(s.EmployeeID)
		}
		fmt.Fprintf(&b, "%-30s %s\n", name, s.FormattedTotal())
	}
	return b.String()
}

// LogMailer logs reports instead of delivering them.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendSummary(_ context.Context, to, subject string, summaries []punch.EmployeeSummary) error {
	m.log.Info("summary report (not delivered: stub mailer)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("employees", len(summaries)),
		zap.String("body", RenderSummary(subject, summaries)),
	)
	return nil
}
