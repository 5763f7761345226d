package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"standard terminal uses percent", 100, 60}, // 100*60/100=60
		{"wide terminal clamps to max", 200, 100},   // 200*60/100=120 > 100
		{"narrow terminal clamps to min", 50, 40},   // 50*60/100=30 < 40
		{"min exceeds terminal", 42, 38},            // 40 > 42-4
		{"tiny terminal clamps to 1", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}
