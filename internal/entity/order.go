package entity

import (
	"math"
	"time"

	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// Order weight bounds, two-decimal precision.
const (
	MinOrderWeight = 0.01
	MaxOrderWeight = 50.00
)

type Order struct {
	ID            uint64
	Weight        float64
	RegionID      *int32
	CourierID     *uint64
	DeliveryHours []timerange.Interval
	AssignTime    *time.Time
	CompleteTime  *time.Time
}

// IsFree reports that the order has never been assigned.
func (o *Order) IsFree() bool {
	return o.AssignTime == nil && o.CompleteTime == nil
}

// IsAssigned reports that the order is held by a courier and not yet done.
func (o *Order) IsAssigned() bool {
	return o.AssignTime != nil && o.CompleteTime == nil
}

func (o *Order) IsCompleted() bool {
	return o.AssignTime != nil && o.CompleteTime != nil
}

// ValidOrderWeight accepts weights within [0.01, 50.00] carrying at most two
// decimal places. The comparison is done in integer hundredths so float
// representation noise cannot flip the boundary values.
func ValidOrderWeight(w float64) bool {
	hundredths := math.Round(w * 100)
	if math.Abs(w*100-hundredths) > 1e-6 {
		return false
	}
	return hundredths >= MinOrderWeight*100 && hundredths <= MaxOrderWeight*100
}
