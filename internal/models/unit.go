package models

import (
	"encoding/json"
	"fmt"
)

// SizeUnit is a unit in which a DirectoryElement size is expressed
type SizeUnit string

const (
	Bytes     SizeUnit = "B"
	Kilobytes SizeUnit = "KB"
)

// UnitFactor is the ratio between two adjacent units
const UnitFactor = 1024

// unitsAscending lists the supported units from smallest to largest.
// Conversion direction is decided by position in this table only.
var unitsAscending = []SizeUnit{Bytes, Kilobytes}

// Rank returns the position of the unit in the ascending table, or -1
// when the unit is not supported.
func (u SizeUnit) Rank() int {
	for i, unit := range unitsAscending {
		if unit == u {
			return i
		}
	}
	return -1
}

// Valid reports whether the unit is part of the ascending table
func (u SizeUnit) Valid() bool {
	return u.Rank() >= 0
}

// Suffix is the text appended to a rounded size when displayed
func (u SizeUnit) Suffix() string {
	return string(u)
}

func (u SizeUnit) String() string {
	return string(u)
}

// ParseSizeUnit maps a display suffix back to its unit
func ParseSizeUnit(s string) (SizeUnit, error) {
	for _, unit := range unitsAscending {
		if unit.Suffix() == s {
			return unit, nil
		}
	}
	return "", fmt.Errorf("unknown size unit %q", s)
}

// UnmarshalJSON rejects units outside the ascending table
func (u *SizeUnit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	unit, err := ParseSizeUnit(s)
	if err != nil {
		return err
	}
	*u = unit
	return nil
}
