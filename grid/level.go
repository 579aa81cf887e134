package grid

import "github.com/pthm-cable/sensefield/sense"

// Material is what occupies a cell. Each material has a resistance per sense
// kind.
type Material uint8

const (
	Open Material = iota
	Rock
	Foliage
	Glass
	Water
	numMaterials
)

var materialNames = [numMaterials]string{"open", "rock", "foliage", "glass", "water"}

func (m Material) String() string {
	if m < numMaterials {
		return materialNames[m]
	}
	return "unknown"
}

// Solid reports whether actors can walk through the material.
func (m Material) Solid() bool { return m == Rock || m == Glass }

// Resistance per material, indexed by sense.Kind:
// vision, heat, smell, sound, touch.
var materialResistance = [numMaterials][sense.NumKinds]float32{
	Open:    {0, 0, 0, 0, 0},
	Rock:    {1, 1, 1, 1, 1},
	Foliage: {0.35, 0.1, 0.05, 0.2, 0.5},
	Glass:   {0, 0.6, 1, 0.8, 1},
	Water:   {0.15, 0.5, 0.7, 0.1, 0.5},
}

// MaterialResistance returns the resistance of m to sense kind k.
func MaterialResistance(m Material, k sense.Kind) float32 {
	if m >= numMaterials || k >= sense.NumKinds {
		return 1
	}
	return materialResistance[m][k]
}

// Level is one z-level of the map: a material layer plus a resistance and a
// directionality layer per sense kind.
type Level struct {
	width, height int

	materials  *Layer[Material]
	resistance [sense.NumKinds]*Layer[float32]
	directions [sense.NumKinds]*Layer[sense.DirectionMask]
}

// NewLevel creates an open level. Off-map cells are opaque and closed.
func NewLevel(width, height int) *Level {
	l := &Level{
		width:     width,
		height:    height,
		materials: NewLayer(width, height, Open, Rock),
	}
	for k := range l.resistance {
		l.resistance[k] = NewLayer[float32](width, height, 0, 1)
		l.directions[k] = NewLayer(width, height, sense.AllDirections, 0)
	}
	return l
}

func (l *Level) Width() int  { return l.width }
func (l *Level) Height() int { return l.height }

// InBounds reports whether (x, y) is on the level.
func (l *Level) InBounds(x, y int) bool { return l.materials.InBounds(x, y) }

// Material returns the material at (x, y).
func (l *Level) Material(x, y int) Material { return l.materials.At(x, y) }

// IsOpen reports whether an actor may stand at (x, y).
func (l *Level) IsOpen(x, y int) bool {
	return l.InBounds(x, y) && !l.Material(x, y).Solid()
}

// SetMaterial places m at (x, y) and updates every kind's resistance.
func (l *Level) SetMaterial(x, y int, m Material) {
	l.materials.Set(x, y, m)
	for k := range l.resistance {
		l.resistance[k].Set(x, y, MaterialResistance(m, sense.Kind(k)))
	}
}

// SetWall is SetMaterial(x, y, Rock).
func (l *Level) SetWall(x, y int) { l.SetMaterial(x, y, Rock) }

// FillRect places m over [x0,x1)×[y0,y1).
func (l *Level) FillRect(x0, y0, x1, y1 int, m Material) {
	l.materials.FillRect(x0, y0, x1, y1, m)
	for k := range l.resistance {
		l.resistance[k].FillRect(x0, y0, x1, y1, MaterialResistance(m, sense.Kind(k)))
	}
}

// Border walls off the outermost ring of cells.
func (l *Level) Border() {
	l.FillRect(0, 0, l.width, 1, Rock)
	l.FillRect(0, l.height-1, l.width, l.height, Rock)
	l.FillRect(0, 0, 1, l.height, Rock)
	l.FillRect(l.width-1, 0, l.width, l.height, Rock)
}

// SetResistance overrides the resistance of one kind at (x, y).
func (l *Level) SetResistance(k sense.Kind, x, y int, r float32) {
	l.resistance[k].Set(x, y, r)
}

// SetDirections overrides the direction mask of one kind at (x, y).
func (l *Level) SetDirections(k sense.Kind, x, y int, m sense.DirectionMask) {
	l.directions[k].Set(x, y, m)
}

// SetOneWay forbids every sense from leaving (x, y) towards d.
func (l *Level) SetOneWay(x, y int, d sense.Direction) {
	for k := range l.directions {
		layer := l.directions[k]
		layer.Set(x, y, layer.At(x, y).Without(d))
	}
}

// Clear resets the level to open ground.
func (l *Level) Clear() {
	l.materials.Clear()
	for k := range l.resistance {
		l.resistance[k].Clear()
		l.directions[k].Clear()
	}
}

// Count returns how many cells hold m.
func (l *Level) Count(m Material) int {
	n := 0
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if l.materials.At(x, y) == m {
				n++
			}
		}
	}
	return n
}

// NearestOpen spirals out from (x, y) looking for an open cell within
// maxRadius rings.
func (l *Level) NearestOpen(x, y, maxRadius int) (int, int, bool) {
	if l.IsOpen(x, y) {
		return x, y, true
	}
	for r := 1; r <= maxRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(absInt(dx), absInt(dy)) != r {
					continue
				}
				if l.IsOpen(x+dx, y+dy) {
					return x + dx, y + dy, true
				}
			}
		}
	}
	return 0, 0, false
}

// TileCount returns the allocated tiles across all layers.
func (l *Level) TileCount() int {
	n := l.materials.TileCount()
	for k := range l.resistance {
		n += l.resistance[k].TileCount() + l.directions[k].TileCount()
	}
	return n
}

// ResistanceView adapts kind k's resistance layer to the sense kernel.
func (l *Level) ResistanceView(k sense.Kind) sense.ResistanceView {
	return resistanceView{l.resistance[k]}
}

// DirectionalityView adapts kind k's direction layer to the sense kernel.
func (l *Level) DirectionalityView(k sense.Kind) sense.DirectionalityView {
	return directionView{l.directions[k]}
}

type resistanceView struct{ *Layer[float32] }

func (v resistanceView) Resistance(x, y int) float32 { return v.At(x, y) }

type directionView struct{ *Layer[sense.DirectionMask] }

func (v directionView) Directions(x, y int) sense.DirectionMask { return v.At(x, y) }

// World is a stack of levels of equal size.
type World struct {
	Levels []*Level
}

// NewWorld creates n open levels.
func NewWorld(width, height, n int) *World {
	w := &World{Levels: make([]*Level, max(n, 1))}
	for i := range w.Levels {
		w.Levels[i] = NewLevel(width, height)
	}
	return w
}

// Level returns level z, or nil when z is out of range.
func (w *World) Level(z int) *Level {
	if z < 0 || z >= len(w.Levels) {
		return nil
	}
	return w.Levels[z]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
