package clinic

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lineage-health/platform/internal/shared/config"
)

func defaultTestConfig() config.ClinicConfig {
	return config.ClinicConfig{
		Host:                "localhost",
		Port:                1433,
		Database:            "clinic",
		PollIntervalSeconds: 60,
	}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFormatContent(t *testing.T) {
	collected := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		row  labRow
		want string
	}{
		{
			"full row",
			labRow{TestName: "Hemoglobin", Value: "13.5", Unit: "g/dL", RefRange: "12.0-15.5", CollectedAt: collected},
			"Hemoglobin: 13.5 g/dL (reference: 12.0-15.5)\nCollected: 2026-03-14",
		},
		{
			"no unit or range",
			labRow{TestName: "Blood Type", Value: "O+", CollectedAt: collected},
			"Blood Type: O+\nCollected: 2026-03-14",
		},
		{
			"unit only",
			labRow{TestName: "Glucose", Value: "92", Unit: "mg/dL", CollectedAt: collected},
			"Glucose: 92 mg/dL\nCollected: 2026-03-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatContent(tt.row); got != tt.want {
				t.Errorf("formatContent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStopWithoutStart(t *testing.T) {
	a := New(defaultTestConfig(), nil, nil, nil)
	if err := a.Stop(testContext(t)); err != nil {
		t.Errorf("Stop on idle adapter: %v", err)
	}
}

func TestHealthNotRunning(t *testing.T) {
	a := New(defaultTestConfig(), nil, nil, nil)
	if err := a.Health(testContext(t)); err == nil {
		t.Error("Health should fail before Start")
	} else if !strings.Contains(err.Error(), "not running") {
		t.Errorf("unexpected error: %v", err)
	}
}
