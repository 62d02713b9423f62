package profiler

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{name: "empty", source: "", want: 0},
		{name: "bare seconds", source: "45", want: 45},
		{name: "mm:ss", source: "12:30", want: 750},
		{name: "h:mm:ss", source: "1:30:00", want: 5400},
		{name: "iso8601 hours minutes", source: "PT1H30M", want: 5400},
		{name: "iso8601 minutes seconds", source: "PT12M30S", want: 750},
		{name: "iso8601 seconds only", source: "PT45S", want: 45},
		{name: "sub-second floors to one second", source: "0.4", want: 1},
		{name: "zero floors to zero", source: "0", want: 0},
		{name: "garbage", source: "not-a-duration", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.source); got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}
