package entity

import (
	"errors"
	"fmt"

	"github.com/kpestov/candy-delivery/pkg/timerange"
)

type CourierType string

const (
	FOOT CourierType = "foot"
	BIKE CourierType = "bike"
	CAR  CourierType = "car"
)

// ErrInvalidCourierType reports a courier type outside {foot, bike, car}.
// Hitting it on persisted data means upstream validation let bad input
// through; callers log it and answer with a generic client error.
var ErrInvalidCourierType = errors.New("invalid courier type")

type Courier struct {
	ID           uint64
	CourierType  CourierType
	Regions      []int32
	WorkingHours []timerange.Interval
}

func ValidCourierTypes() []string {
	return []string{
		string(FOOT),
		string(BIKE),
		string(CAR),
	}
}

func IsValidCourierType(t string) bool {
	for _, validType := range ValidCourierTypes() {
		if validType == t {
			return true
		}
	}
	return false
}

// MaxWeight is the carry capacity of the type, in weight units.
func (t CourierType) MaxWeight() (float64, error) {
	switch t {
	case FOOT:
		return 10, nil
	case BIKE:
		return 15, nil
	case CAR:
		return 50, nil
	default:
		return 0, fmt.Errorf("%q: %w", t, ErrInvalidCourierType)
	}
}

// EarningsCoefficient is the per-type multiplier of the earnings formula.
func (t CourierType) EarningsCoefficient() (int, error) {
	switch t {
	case FOOT:
		return 2, nil
	case BIKE:
		return 5, nil
	case CAR:
		return 9, nil
	default:
		return 0, fmt.Errorf("%q: %w", t, ErrInvalidCourierType)
	}
}

func (c *Courier) ServesRegion(region int32) bool {
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}
