package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/warp/attendance-engine/punch"
	"github.com/warp/attendance-engine/report"
)

func TestRenderSummary(t *testing.T) {
	body := report.RenderSummary("Espelho de ponto", []punch.EmployeeSummary{
		{EmployeeID: "f-001", EmployeeName: "Ana Clara", TotalWorkedSeconds: 28800},
		{EmployeeID: "f-002", TotalWorkedSeconds: 3600},
	})

	assert.Contains(t, body, "Ana Clara")
	assert.Contains(t, body, "08:00")
	assert.Contains(t, body, "f-002", "ID stands in for a missing name")
	assert.Contains(t, body, "01:00")
}

func TestRenderSummary_Empty(t *testing.T) {
	body := report.RenderSummary("Espelho de ponto", nil)
	assert.Contains(t, body, "Nenhum registro")
}

func TestLogMailer_NeverFails(t *testing.T) {
	m := report.NewLogMailer(zap.NewNop())
	err := m.SendSummary(context.Background(), "rh@warp.dev", "Espelho", nil)
	assert.NoError(t, err)
}
