package model

import "fmt"

// MovingAverage is a derived column aligned one-to-one with a PriceSeries.
// Values[i] is meaningful only when Valid[i] is true.
type MovingAverage struct {
	Window int
	Values []float64
	Valid  []bool
}

// Name returns the column name, e.g. "MA20".
func (m MovingAverage) Name() string {
	return fmt.Sprintf("MA%d", m.Window)
}

// Len returns the column length.
func (m MovingAverage) Len() int { return len(m.Values) }

// At returns the value at i and whether it is defined. Out-of-range indices are undefined.
func (m MovingAverage) At(i int) (float64, bool) {
	if i < 0 || i >= len(m.Values) || i >= len(m.Valid) || !m.Valid[i] {
		return 0, false
	}
	return m.Values[i], true
}

// DefinedCount returns how many entries are defined.
func (m MovingAverage) DefinedCount() int {
	n := 0
	for _, ok := range m.Valid {
		if ok {
			n++
		}
	}
	return n
}
