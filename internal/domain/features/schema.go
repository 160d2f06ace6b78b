// Package features turns per-game rows into per-player feature matrices.
//
// A Matrix carries its Schema alongside the values so later stages address
// columns by position, never by name lookup at scoring time. Absent cells
// hold NaN and are never coerced to zero.
package features

import (
	"math"

	"github.com/okian/playersim/internal/domain/model"
)

// WeightClass groups features by how strongly they separate players.
type WeightClass int

// Weight classes, lowest to highest weight.
const (
	ClassVolume WeightClass = iota
	ClassEfficiency
	ClassPerGame
	ClassEPA
)

// Default class weights.
const (
	volumeWeight     = 1.0
	efficiencyWeight = 1.5
	perGameWeight    = 1.8
	epaWeight        = 2.0
)

// Weight returns the Phase-1 weight for the class.
func (c WeightClass) Weight() float64 {
	switch c {
	case ClassEfficiency:
		return efficiencyWeight
	case ClassPerGame:
		return perGameWeight
	case ClassEPA:
		return epaWeight
	default:
		return volumeWeight
	}
}

func (c WeightClass) String() string {
	switch c {
	case ClassEfficiency:
		return "efficiency"
	case ClassPerGame:
		return "per_game"
	case ClassEPA:
		return "epa"
	default:
		return "volume"
	}
}

// Column describes one feature.
// Stat is set for totals read directly from a raw stat; EraAdjusted marks
// the totals the era adjuster rescales.
type Column struct {
	Name        string
	Class       WeightClass
	Stat        model.StatField
	EraAdjusted bool
}

// Schema is an ordered, immutable list of columns.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema from columns in order.
func NewSchema(cols []Column) Schema {
	s := Schema{columns: make([]Column, len(cols)), index: make(map[string]int, len(cols))}
	copy(s.columns, cols)
	for i, c := range cols {
		s.index[c.Name] = i
	}
	return s
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Column returns column j.
func (s Schema) Column(j int) Column { return s.columns[j] }

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	j, ok := s.index[name]
	return j, ok
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.columns))
	for j, c := range s.columns {
		out[j] = c.Name
	}
	return out
}

// Weights returns the per-column weights in order.
func (s Schema) Weights() []float64 {
	out := make([]float64, len(s.columns))
	for j, c := range s.columns {
		out[j] = c.Class.Weight()
	}
	return out
}

// Without returns a schema minus the given column positions.
func (s Schema) Without(drop []int) Schema {
	skip := make(map[int]bool, len(drop))
	for _, j := range drop {
		skip[j] = true
	}
	kept := make([]Column, 0, len(s.columns))
	for j, c := range s.columns {
		if !skip[j] {
			kept = append(kept, c)
		}
	}
	return NewSchema(kept)
}

// Absent is the in-matrix marker for a value that was not computed.
func Absent() float64 { return math.NaN() }

// IsAbsent reports whether v is the absent marker.
func IsAbsent(v float64) bool { return math.IsNaN(v) }
