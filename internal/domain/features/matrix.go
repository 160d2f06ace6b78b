package features

import "fmt"

// Matrix is an immutable players-by-features table.
// Rows are cohort members in ID order; columns follow the Schema.
type Matrix struct {
	schema Schema
	ids    []string
	rowOf  map[string]int
	values [][]float64
}

// NewMatrix copies ids and values into a new Matrix.
func NewMatrix(schema Schema, ids []string, values [][]float64) (Matrix, error) {
	if len(ids) != len(values) {
		return Matrix{}, fmt.Errorf("%w: %d ids for %d rows", ErrShape, len(ids), len(values))
	}
	m := Matrix{
		schema: schema,
		ids:    make([]string, len(ids)),
		rowOf:  make(map[string]int, len(ids)),
		values: make([][]float64, len(values)),
	}
	copy(m.ids, ids)
	for i, row := range values {
		if len(row) != schema.Len() {
			return Matrix{}, fmt.Errorf("%w: row %d has %d values, schema has %d", ErrShape, i, len(row), schema.Len())
		}
		if _, dup := m.rowOf[ids[i]]; dup {
			return Matrix{}, fmt.Errorf("%w: duplicate id %q", ErrShape, ids[i])
		}
		m.rowOf[ids[i]] = i
		m.values[i] = append([]float64(nil), row...)
	}
	return m, nil
}

// Schema returns the column schema.
func (m Matrix) Schema() Schema { return m.schema }

// Rows returns the number of members.
func (m Matrix) Rows() int { return len(m.ids) }

// Cols returns the number of features.
func (m Matrix) Cols() int { return m.schema.Len() }

// ID returns the player id of row i.
func (m Matrix) ID(i int) string { return m.ids[i] }

// IDs returns a copy of the row ids.
func (m Matrix) IDs() []string { return append([]string(nil), m.ids...) }

// RowOf returns the row index for a player id.
func (m Matrix) RowOf(id string) (int, bool) {
	i, ok := m.rowOf[id]
	return i, ok
}

// At returns cell (i, j) and whether it is present.
func (m Matrix) At(i, j int) (float64, bool) {
	v := m.values[i][j]
	return v, !IsAbsent(v)
}

// Row returns a copy of row i. Absent cells are NaN.
func (m Matrix) Row(i int) []float64 { return append([]float64(nil), m.values[i]...) }

// Column returns a copy of column j. Absent cells are NaN.
func (m Matrix) Column(j int) []float64 {
	out := make([]float64, len(m.values))
	for i := range m.values {
		out[i] = m.values[i][j]
	}
	return out
}

// Values returns a deep copy of the cells.
func (m Matrix) Values() [][]float64 {
	out := make([][]float64, len(m.values))
	for i, row := range m.values {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// WithValues returns a matrix with the same schema and ids and new cells.
func (m Matrix) WithValues(values [][]float64) (Matrix, error) {
	return NewMatrix(m.schema, m.ids, values)
}

// DropColumns returns a matrix without the given column positions.
func (m Matrix) DropColumns(drop []int) (Matrix, error) {
	if len(drop) == 0 {
		return m, nil
	}
	skip := make(map[int]bool, len(drop))
	for _, j := range drop {
		skip[j] = true
	}
	values := make([][]float64, len(m.values))
	for i, row := range m.values {
		kept := make([]float64, 0, len(row))
		for j, v := range row {
			if !skip[j] {
				kept = append(kept, v)
			}
		}
		values[i] = kept
	}
	return NewMatrix(m.schema.Without(drop), m.ids, values)
}
