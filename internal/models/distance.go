package models

import (
	"errors"
	"strings"
)

// DistanceUnit is the unit a distance is expressed in.
type DistanceUnit string

const (
	// Kilometers selects the mean Earth radius in kilometers.
	Kilometers DistanceUnit = "km"
	// Miles selects the mean Earth radius in statute miles.
	Miles DistanceUnit = "miles"
)

// Mean Earth radius per unit.
const (
	EarthRadiusKm    = 6371.0
	EarthRadiusMiles = 3958.8
)

// ErrUnknownUnit is returned by ParseUnit for values outside the accepted set.
var ErrUnknownUnit = errors.New("unknown distance unit")

// ParseUnit normalizes a raw unit to one of the accepted variants.
// Matching is case-insensitive and an empty value selects Kilometers.
func ParseUnit(raw string) (DistanceUnit, error) {
	if raw == "" {
		return Kilometers, nil
	}

	switch unit := DistanceUnit(strings.ToLower(raw)); unit {
	case Kilometers, Miles:
		return unit, nil
	default:
		return "", ErrUnknownUnit
	}
}

// Radius returns the Earth radius for the unit. Anything but Miles uses kilometers.
func (u DistanceUnit) Radius() float64 {
	if u == Miles {
		return EarthRadiusMiles
	}
	return EarthRadiusKm
}

// DistanceQuery is a validated pair of points plus the unit of the answer.
type DistanceQuery struct {
	From Coordinates
	To   Coordinates
	Unit DistanceUnit
}

// DistanceResult is a great-circle distance rounded to two decimals.
type DistanceResult struct {
	Distance float64      `json:"distance"`
	Unit     DistanceUnit `json:"unit"`
}
