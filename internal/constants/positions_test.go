package constants

import "testing"

func TestPositionValid(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		n    int
		want bool
	}{
		{"twelve on clock", PositionTwelve, 12, true},
		{"six on clock", PositionSix, 12, true},
		{"zero", Position(0), 12, false},
		{"past end", Position(13), 12, false},
		{"nine on small cycle", PositionNine, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Valid(tt.n); got != tt.want {
				t.Errorf("Position(%d).Valid(%d) = %v, want %v", tt.pos, tt.n, got, tt.want)
			}
		})
	}
}

func TestPositionString(t *testing.T) {
	if got := PositionSix.String(); got != "6 o'clock" {
		t.Errorf("PositionSix.String() = %q, want %q", got, "6 o'clock")
	}
	if got := Position(20).String(); got != "20" {
		t.Errorf("Position(20).String() = %q, want %q", got, "20")
	}
}
