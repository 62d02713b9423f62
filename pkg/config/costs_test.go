package config

import "testing"

func TestAccessCostsMultiplier(t *testing.T) {
	path := writeTemp(t, "access_costs.conf", "value\tmultiplier\nprivate\t0.0\ndestination\t1.0\ncustomers\t0.1\n")
	costs, err := LoadAccessCosts(path)
	if err != nil {
		t.Fatalf("LoadAccessCosts() error = %v", err)
	}

	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "known private", value: "private", want: 0.0},
		{name: "known customers", value: "customers", want: 0.1},
		{name: "unknown value defaults to 1.0", value: "yes", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := costs.Multiplier(tt.value); got != tt.want {
				t.Errorf("Multiplier(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestBarrierCostsCost(t *testing.T) {
	path := writeTemp(t, "barrier_costs.conf", "value\tcost_seconds\ngate\t10\nbollard\t5\n")
	costs, err := LoadBarrierCosts(path)
	if err != nil {
		t.Fatalf("LoadBarrierCosts() error = %v", err)
	}

	if got, ok := costs.Cost("gate"); !ok || got != 10 {
		t.Errorf("Cost(gate) = (%v, %v), want (10, true)", got, ok)
	}
	if _, ok := costs.Cost("unknown"); ok {
		t.Errorf("Cost(unknown) ok = true, want false")
	}
}
