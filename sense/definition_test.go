package sense

import (
	"math"
	"testing"
)

func TestMetricDistance(t *testing.T) {
	tests := []struct {
		metric Metric
		x, y   int
		want   float32
	}{
		{Euclidean, 3, -4, 5},
		{Euclidean, 0, 0, 0},
		{Chebyshev, 3, -4, 4},
		{Chebyshev, -7, 2, 7},
		{Manhattan, 3, -4, 7},
		{Manhattan, -2, -2, 4},
	}
	for _, tt := range tests {
		if got := tt.metric.Distance(tt.x, tt.y); got != tt.want {
			t.Errorf("%s distance(%d,%d): got %f, want %f", tt.metric, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestParseMetricAndAdjacency(t *testing.T) {
	for _, m := range []Metric{Euclidean, Chebyshev, Manhattan} {
		got, err := ParseMetric(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMetric(%q): got %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMetric("taxicab"); err == nil {
		t.Error("expected error for unknown metric")
	}
	if a, err := ParseAdjacency("four"); err != nil || a != FourWay {
		t.Errorf("ParseAdjacency(four): got %v, %v", a, err)
	}
	if a, err := ParseAdjacency(""); err != nil || a != EightWay {
		t.Errorf("ParseAdjacency(empty): got %v, %v", a, err)
	}
	if _, err := ParseAdjacency("six"); err == nil {
		t.Error("expected error for unknown adjacency")
	}
}

func TestDefinitionNormalize(t *testing.T) {
	d := Definition{Intensity: -2, Span: 3}.Normalize()
	if d.Intensity != 0 {
		t.Errorf("intensity not clamped: got %f", d.Intensity)
	}
	if d.Span != 1 {
		t.Errorf("span not clamped: got %f", d.Span)
	}
	d = Definition{Intensity: float32(math.NaN()), Span: float32(math.NaN())}.Normalize()
	if d.Intensity != 0 || d.Span != 0 {
		t.Errorf("NaN not clamped: got intensity %f span %f", d.Intensity, d.Span)
	}
}

func TestInCone(t *testing.T) {
	// Quarter circle facing east: ±45°.
	d := Definition{Angle: 90, Span: 0.25}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 0, 0, true},
		{"east", 5, 0, true},
		{"north-east edge", 3, -3, true},
		{"south-east edge", 3, 3, true},
		{"north", 0, -4, false},
		{"west", -5, 0, false},
		{"steep north-east", 1, -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.InCone(tt.x, tt.y); got != tt.want {
				t.Errorf("InCone(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestInConeWrapsAroundNorth(t *testing.T) {
	d := Definition{Angle: 350, Span: 0.125}
	if !d.InCone(1, -5) {
		t.Error("cell just east of north should be inside a cone centred at 350°")
	}
	if !d.InCone(-2, -5) {
		t.Error("cell west of north should be inside a cone centred at 350°")
	}
	if d.InCone(3, -3) {
		t.Error("north-east diagonal should be outside the cone")
	}
}

func TestUnrestrictedCone(t *testing.T) {
	for _, span := range []float32{0, 1} {
		d := Definition{Angle: 45, Span: span}
		if !d.InCone(-3, 4) {
			t.Errorf("span %f should not restrict", span)
		}
	}
}

func TestParseKind(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q): got %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("taste"); ok {
		t.Error("ParseKind accepted an unknown kind")
	}
	if NumKinds.String() != "unknown" {
		t.Errorf("out of range kind: got %q", NumKinds.String())
	}
}
