package core

import "sort"

// DeltaPolicy controls how a negative consumption delta is treated. A
// meter replacement can legitimately produce a reading lower than the
// previous month's; by default the delta stays negative, exactly as
// subtraction yields it.
type DeltaPolicy string

const (
	// DeltaAllow passes negative deltas through unchanged.
	DeltaAllow DeltaPolicy = "allow"
	// DeltaFlag keeps the negative delta but marks the row as a
	// suspected meter reset.
	DeltaFlag DeltaPolicy = "flag"
	// DeltaClamp replaces a negative delta with zero.
	DeltaClamp DeltaPolicy = "clamp"
)

// IsValid reports whether p is a known delta policy.
func (p DeltaPolicy) IsValid() bool {
	switch p {
	case DeltaAllow, DeltaFlag, DeltaClamp:
		return true
	}
	return false
}

// Consumption is a month's current reading together with its consumption
// deltas against the preceding month. Heat carries two independent
// channels; for the other utilities DeltaFlow stays zero.
type Consumption struct {
	Reading
	DeltaValue float64
	DeltaFlow  float64
	MeterReset bool
}

type groupKey struct {
	propertyID string
	year       int
	monthNum   int
}

// precedingKey returns the group key for the immediately preceding
// calendar month of the same property, rolling January back to December
// of the previous year.
func (k groupKey) preceding() groupKey {
	if k.monthNum == 1 {
		return groupKey{propertyID: k.propertyID, year: k.year - 1, monthNum: 12}
	}
	return groupKey{propertyID: k.propertyID, year: k.year, monthNum: k.monthNum - 1}
}

// Derive computes month-over-month consumption from raw readings.
//
// Readings are grouped by (property, year, month); within a group the
// current reading is the one with the latest reading date, ties broken by
// the highest insertion id. Each group's deltas are taken against the
// preceding month's current reading. A group with no predecessor gets
// zero deltas: a property's first recorded month has no baseline, which
// is not an error. Months with no readings produce no output row.
//
// Derive is pure and total: it never fails, and the same input always
// yields the same output, ordered by (property, year, month).
func Derive(readings []Reading, policy DeltaPolicy) []Consumption {
	current := make(map[groupKey]Reading)
	for _, r := range readings {
		mn := r.MonthNum
		if mn == 0 {
			// Tolerate rows persisted before the month number was
			// derived at insert.
			if n, ok := MonthNumber(r.Month); ok {
				mn = n
			} else {
				continue
			}
		}
		k := groupKey{propertyID: r.PropertyID, year: r.Year, monthNum: mn}
		cur, ok := current[k]
		if !ok || laterReading(r, cur) {
			r.MonthNum = mn
			current[k] = r
		}
	}

	keys := make([]groupKey, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.propertyID != b.propertyID {
			return a.propertyID < b.propertyID
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.monthNum < b.monthNum
	})

	out := make([]Consumption, 0, len(keys))
	for _, k := range keys {
		cur := current[k]
		c := Consumption{Reading: cur}
		if prev, ok := current[k.preceding()]; ok {
			c.DeltaValue = cur.Value - prev.Value
			c.DeltaFlow = cur.Flow - prev.Flow
		}
		applyPolicy(&c, policy)
		out = append(out, c)
	}
	return out
}

// laterReading reports whether a supersedes b as the current reading of
// their shared group: later reading date wins, then higher insertion id.
func laterReading(a, b Reading) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID > b.ID
}

func applyPolicy(c *Consumption, policy DeltaPolicy) {
	if c.DeltaValue >= 0 && c.DeltaFlow >= 0 {
		return
	}
	switch policy {
	case DeltaFlag:
		c.MeterReset = true
	case DeltaClamp:
		if c.DeltaValue < 0 {
			c.DeltaValue = 0
		}
		if c.DeltaFlow < 0 {
			c.DeltaFlow = 0
		}
	}
}
