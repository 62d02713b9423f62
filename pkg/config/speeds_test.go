package config

import "testing"

func TestSpeedConstantsLookup(t *testing.T) {
	path := writeTemp(t, "speed_constants.conf", "de:rural\t100\ngb:nsl_single\t60 mph\nrural\t90\n")
	sc, err := LoadSpeedConstants(path)
	if err != nil {
		t.Fatalf("LoadSpeedConstants() error = %v", err)
	}

	tests := []struct {
		name    string
		code    string
		want    float64
		wantOK  bool
	}{
		{name: "exact country:class", code: "de:rural", want: 100, wantOK: true},
		{name: "mph conversion", code: "gb:nsl_single", want: 60 * 1609.0 / 1000.0, wantOK: true},
		{name: "case insensitive", code: "DE:RURAL", want: 100, wantOK: true},
		{name: "bare class fallback", code: "fr:rural", want: 90, wantOK: true},
		{name: "unknown code", code: "zz:unknown", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
