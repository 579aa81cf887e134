package inspector

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/sense"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		opts   map[string]string
	}{
		{"", WidgetAuto, nil},
		{"bar", WidgetBar, nil},
		{"bar,max:20", WidgetBar, map[string]string{"max": "20"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"angle", WidgetAngle, nil},
		{"skip", WidgetSkip, nil},
		{"nonsense", WidgetAuto, nil},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget {
			t.Errorf("ParseTag(%q) widget: got %v, want %v", tt.tag, w, tt.widget)
		}
		for k, v := range tt.opts {
			if opts[k] != v {
				t.Errorf("ParseTag(%q) option %s: got %q, want %q", tt.tag, k, opts[k], v)
			}
		}
	}
}

func TestExtractSenseSource(t *testing.T) {
	src := &components.SenseSource{
		Kind:      sense.Smell,
		Intensity: 6,
		Enabled:   true,
		Data:      sense.NewSourceData(3),
	}
	fields := ExtractFields(src)

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	if _, ok := byName["Data"]; ok {
		t.Error("Data is tagged skip and should not be extracted")
	}
	if _, ok := byName["Definition"]; ok {
		t.Error("Definition is tagged skip and should not be extracted")
	}

	kind, ok := byName["Kind"]
	if !ok {
		t.Fatal("Kind missing")
	}
	if got := FormatValue(kind.Value, kind.Options["fmt"]); got != "smell" {
		t.Errorf("Kind formatted: got %q, want smell", got)
	}

	in := byName["Intensity"]
	if in.Widget != WidgetBar || GetMax(in.Options) != 20 {
		t.Errorf("Intensity: got widget %v max %v, want bar max 20", in.Widget, GetMax(in.Options))
	}
	if byName["Enabled"].Widget != WidgetBool {
		t.Error("Enabled should render as bool")
	}
}

func TestExtractActorAngle(t *testing.T) {
	fields := ExtractFields(components.Actor{ID: "a1", Heading: 135})
	for _, f := range fields {
		if f.Name != "Heading" {
			continue
		}
		if f.Widget != WidgetAngle {
			t.Errorf("Heading widget: got %v, want angle", f.Widget)
		}
		if v, ok := GetFloatValue(f.Value); !ok || v != 135 {
			t.Errorf("Heading value: got %v, %v", v, ok)
		}
		return
	}
	t.Error("Heading not extracted")
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(float32(1.234), ""); got != "1.23" {
		t.Errorf("float32: got %q", got)
	}
	if got := FormatValue(float32(1.25), "%.1f"); got != "1.2" && got != "1.3" {
		t.Errorf("explicit format: got %q", got)
	}
	if got := FormatValue("", ""); got != "-" {
		t.Errorf("empty string: got %q, want -", got)
	}
	if got := FormatValue(sense.NE, ""); got != "NE" {
		t.Errorf("direction: got %q, want NE", got)
	}
	if GetMax(map[string]string{"max": "-3"}) != 1 {
		t.Error("non-positive max should fall back to 1")
	}
	if _, ok := GetFloatValue("x"); ok {
		t.Error("string is not numeric")
	}
	if ExtractFields(3) != nil {
		t.Error("non-struct should yield no fields")
	}
}

func TestConeBearing(t *testing.T) {
	tests := []struct {
		angle, heading, want float32
	}{
		{0, 0, 0},
		{90, 45, 135},
		{300, 90, 30},
		{-30, 0, 330},
		{10, -370, 0},
	}
	for _, tt := range tests {
		if got := ConeBearing(tt.angle, tt.heading); math.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("ConeBearing(%v, %v): got %v, want %v", tt.angle, tt.heading, got, tt.want)
		}
	}
}

func TestCompassUnit(t *testing.T) {
	tests := []struct {
		deg    float32
		dx, dy float32
	}{
		{0, 0, -1},
		{90, 1, 0},
		{180, 0, 1},
		{270, -1, 0},
	}
	for _, tt := range tests {
		x, y := compassUnit(tt.deg)
		if math.Abs(float64(x-tt.dx)) > 1e-6 || math.Abs(float64(y-tt.dy)) > 1e-6 {
			t.Errorf("compassUnit(%v): got (%v, %v), want (%v, %v)", tt.deg, x, y, tt.dx, tt.dy)
		}
	}
}

func TestMeterShading(t *testing.T) {
	if clamp01(-2) != 0 || clamp01(0.4) != 0.4 || clamp01(7) != 1 {
		t.Error("clamp01 out of range")
	}
	if got := blend(ColorWeak, ColorStrong, 0); got != ColorWeak {
		t.Errorf("blend at 0: got %v, want %v", got, ColorWeak)
	}
	if got := blend(ColorWeak, ColorStrong, 1); got != ColorStrong {
		t.Errorf("blend at 1: got %v, want %v", got, ColorStrong)
	}
}

func TestSummarize(t *testing.T) {
	if s := Summarize(nil); s.Lit != 0 || s.Radius != 0 {
		t.Errorf("nil field: got %+v", s)
	}

	d := sense.NewSourceData(2)
	d.Write(sense.Point{}, 10, sense.None, sense.SelfIlluminating)
	d.Write(sense.Point{X: 1}, 6, sense.E, 0)
	d.Write(sense.Point{X: 2}, 3, sense.E, sense.Obstructed)
	d.Write(sense.Point{Y: -1}, 5, sense.N, 0)
	d.Write(sense.Point{Y: -2}, 0, sense.N, 0) // written but unlit

	s := Summarize(d)
	if s.Radius != 2 {
		t.Errorf("radius: got %d, want 2", s.Radius)
	}
	if s.Lit != 4 {
		t.Errorf("lit: got %d, want 4", s.Lit)
	}
	if s.Obstructed != 1 {
		t.Errorf("obstructed: got %d, want 1", s.Obstructed)
	}
	if s.Peak != 6 {
		t.Errorf("peak excludes the source: got %v, want 6", s.Peak)
	}
	if s.Total != 24 {
		t.Errorf("total: got %v, want 24", s.Total)
	}

	east := s.Arrivals[sense.E-sense.N]
	north := s.Arrivals[0]
	if east < 0.66 || east > 0.67 {
		t.Errorf("east share: got %v, want 2/3", east)
	}
	if north < 0.33 || north > 0.34 {
		t.Errorf("north share: got %v, want 1/3", north)
	}
}

func TestCellReadout(t *testing.T) {
	d := sense.NewSourceData(2)
	d.Write(sense.Point{}, 8, sense.None, sense.SelfIlluminating)
	d.Write(sense.Point{X: 1, Y: 1}, 2.5, sense.SE, sense.Obstructed)
	origin := sense.Point{X: 10, Y: 20}

	if got, want := CellReadout(d, origin, 11, 21), "(11, 21): 2.500 from SE [obstructed]"; got != want {
		t.Errorf("lit cell: got %q, want %q", got, want)
	}
	if got, want := CellReadout(d, origin, 10, 20), "(10, 20): 8.000 from none [source]"; got != want {
		t.Errorf("source cell: got %q, want %q", got, want)
	}
	if got, want := CellReadout(d, origin, 0, 0), "(0, 0): no signal"; got != want {
		t.Errorf("far cell: got %q, want %q", got, want)
	}
}

func TestPickAt(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Actor, components.SenseSource](world)
	spawn := func(x, y, level int) ecs.Entity {
		return mapper.NewEntity(
			&components.Position{X: x, Y: y, Level: level},
			&components.Actor{ID: "a"},
			&components.SenseSource{Kind: sense.Vision},
		)
	}
	near := spawn(5, 5, 0)
	exact := spawn(6, 5, 0)
	spawn(6, 5, 1)

	filter := ecs.NewFilter3[components.Position, components.Actor, components.SenseSource](world)

	if e, ok := PickAt(filter, 6, 5, 0); !ok || e != exact {
		t.Errorf("exact hit: got %v, %v, want %v", e, ok, exact)
	}
	if e, ok := PickAt(filter, 4, 4, 0); !ok || e != near {
		t.Errorf("neighbour hit: got %v, %v, want %v", e, ok, near)
	}
	if _, ok := PickAt(filter, 20, 20, 0); ok {
		t.Error("empty area should not pick")
	}
	if _, ok := PickAt(filter, 5, 5, 2); ok {
		t.Error("other level should not pick")
	}
}
