package core

import (
	"strings"
	"time"
)

// Utility identifies which meter a reading belongs to.
type Utility string

const (
	Heat        Utility = "heat"
	Electricity Utility = "electricity"
	Water       Utility = "water"
)

// Utilities lists every supported utility type.
var Utilities = []Utility{Heat, Electricity, Water}

// IsValid reports whether u is a known utility type.
func (u Utility) IsValid() bool {
	switch u {
	case Heat, Electricity, Water:
		return true
	}
	return false
}

// HasFlow reports whether readings of this utility carry the second
// measurement channel. Only heat meters record both an energy reading and
// a flow-volume reading.
func (u Utility) HasFlow() bool {
	return u == Heat
}

// ValueDecimals is the fixed decimal precision for the primary channel.
func (u Utility) ValueDecimals() int {
	switch u {
	case Heat:
		return 3
	case Water:
		return 4
	default: // electricity meters report whole kWh
		return 0
	}
}

// FlowDecimals is the fixed decimal precision for the flow channel.
func (u Utility) FlowDecimals() int {
	return 2
}

type (
	// Property is a registered real-estate unit. ID is the cadastral
	// identifier, a natural key assigned by the land registry; it is the
	// only handle readings use to reference a property.
	Property struct {
		ID         string
		Name       string
		Address    string
		BuildYear  int
		Material   string
		FloorArea  float64
		Volume     float64
		LotArea    float64
		OwnerName  string
		OwnerPhone string
		OwnerEmail string
		Note       string
	}

	// Reading is a single raw meter observation. ID is a surrogate key
	// assigned at insertion and doubles as the insertion-order tiebreak
	// when several readings land on the same date. Value holds the energy
	// reading for heat and electricity and the volume reading for water;
	// Flow is only meaningful for heat.
	Reading struct {
		ID         int64
		PropertyID string
		Year       int
		Month      string
		MonthNum   int
		Date       time.Time
		Value      float64
		Flow       float64
		Note       string
	}
)

// Validate checks the required property fields.
func (p Property) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return Validationf("property id is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return Validationf("address is required")
	}
	if strings.TrimSpace(p.OwnerName) == "" {
		return Validationf("owner name is required")
	}
	return nil
}

// Validate checks the required reading fields for the given utility.
func (r Reading) Validate(u Utility) error {
	if !u.IsValid() {
		return Validationf("unknown utility %q", string(u))
	}
	if strings.TrimSpace(r.PropertyID) == "" {
		return Validationf("property id is required")
	}
	if r.Year == 0 {
		return Validationf("year is required")
	}
	if _, ok := MonthNumber(r.Month); !ok {
		return Validationf("unknown month name %q", r.Month)
	}
	if r.Date.IsZero() {
		return Validationf("reading date is required")
	}
	return nil
}
