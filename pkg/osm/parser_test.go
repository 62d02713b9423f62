package osm

import "testing"

func TestIsPBF(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "lowercase pbf", path: "extract.osm.pbf", want: true},
		{name: "uppercase extension", path: "extract.PBF", want: true},
		{name: "xml extension", path: "extract.osm", want: false},
		{name: "plain xml", path: "extract.xml", want: false},
		{name: "no extension", path: "extract", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPBF(tt.path)
			if got != tt.want {
				t.Errorf("IsPBF(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
