// Package unassign re-evaluates a courier's assigned orders after its
// attributes changed. The check is advisory: it returns the orders that must
// be detached and leaves the actual detaching (clearing the courier link and
// assign_time) to the caller.
package unassign

import (
	"time"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// OrdersToDetach returns the subset of assigned orders the courier can no
// longer serve at now.
//
// A courier whose working day has ended (no schedule, or every window
// elapsed) loses all of its assigned orders. Otherwise an order is detached
// when its weight exceeds the courier's capacity after a type downgrade,
// when its region left the courier's region set, or when its delivery
// windows no longer overlap the declared working windows. An order assigned
// into a window that has since elapsed is kept: only the day-over decision
// looks at remaining time. Every order appears at most once even if several
// criteria match.
func OrdersToDetach(courier *entity.Courier, assigned []entity.Order, now time.Time) ([]entity.Order, error) {
	if len(assigned) == 0 {
		return nil, nil
	}

	workingHours := timerange.ResolveAll(courier.WorkingHours, now)
	if len(timerange.PruneElapsed(workingHours, now)) == 0 {
		return append([]entity.Order{}, assigned...), nil
	}

	maxWeight, err := courier.CourierType.MaxWeight()
	if err != nil {
		return nil, err
	}

	result := []entity.Order{}
	seen := map[uint64]struct{}{}
	detach := func(o entity.Order) {
		if _, ok := seen[o.ID]; ok {
			return
		}
		seen[o.ID] = struct{}{}
		result = append(result, o)
	}

	for _, order := range assigned {
		if order.Weight > maxWeight {
			detach(order)
			continue
		}

		if order.RegionID == nil || !courier.ServesRegion(*order.RegionID) {
			detach(order)
			continue
		}

		deliveryHours := timerange.ResolveAll(order.DeliveryHours, now)
		if !timerange.AnyOverlap(deliveryHours, workingHours) {
			detach(order)
		}
	}

	return result, nil
}
