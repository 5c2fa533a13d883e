// Package assign implements the greedy per-courier order assignment pass.
//
// The pass is a pure selection over state the caller already fetched: the
// courier, its currently assigned orders and the pool of free, region- and
// weight-eligible orders. Persisting the selection is the caller's job, done
// in the same transaction that produced the pool.
package assign

import (
	"time"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

type Action struct {
	courier *entity.Courier
	state   *courierState
	now     time.Time
}

// Result of one assignment pass. Orders is the courier's full assigned set
// after the pass (previously assigned first, then newly assigned, each with
// AssignTime and CourierID set).
type Result struct {
	Orders        []entity.Order
	NewlyAssigned []entity.Order
}

// New prepares a pass for the courier at the reference instant now.
// Fails only on a courier type the capacity model does not know.
func New(courier *entity.Courier, assigned []entity.Order, now time.Time) (*Action, error) {
	state, err := initCourierState(courier, assigned, now)
	if err != nil {
		return nil, err
	}

	return &Action{
		courier: courier,
		state:   state,
		now:     now,
	}, nil
}

// MaxWeight is the courier's total carrying capacity, resolved from its type
// when the pass was prepared. Callers use it to bound the eligible pool.
func (a *Action) MaxWeight() float64 {
	return a.state.maxWeight
}

// Select runs the greedy pass over the eligible pool.
//
// A courier with no declared schedule, or whose working day has fully
// elapsed, keeps its current set and receives nothing new. Otherwise the
// pool is grouped by region in encounter order; inside each group orders are
// scanned lightest first (ties broken by the soonest first-window deadline)
// and assigned while they fit the remaining capacity and their delivery
// windows overlap the courier's remaining working windows. The pass stops
// outright once capacity is exhausted.
func (a *Action) Select(pool []entity.Order) Result {
	result := Result{
		Orders: append([]entity.Order{}, a.state.assigned...),
	}

	if a.state.dayOver() {
		return result
	}

	groups := groupByRegion(a.deliverable(pool))

	for _, region := range groups.regions {
		candidates := groups.byRegion[region]
		sortCandidates(candidates)

		for i := range candidates {
			if a.state.exhausted() {
				return result
			}

			cand := &candidates[i]
			if !a.state.fits(cand.order.Weight) {
				continue
			}
			if !timerange.AnyOverlap(cand.windows, a.state.workingHours) {
				continue
			}

			assigned := cand.order
			assignTime := a.now
			assigned.AssignTime = &assignTime
			courierID := a.courier.ID
			assigned.CourierID = &courierID

			result.Orders = append(result.Orders, assigned)
			result.NewlyAssigned = append(result.NewlyAssigned, assigned)
			a.state.take(assigned.Weight)
		}
	}

	return result
}

// deliverable resolves every order's delivery windows against now's date,
// drops elapsed windows and discards orders left without any.
func (a *Action) deliverable(pool []entity.Order) []candidate {
	candidates := make([]candidate, 0, len(pool))
	for _, order := range pool {
		windows := timerange.PruneElapsed(
			timerange.ResolveAll(order.DeliveryHours, a.now),
			a.now,
		)
		if len(windows) == 0 {
			continue
		}

		candidates = append(candidates, candidate{order: order, windows: windows})
	}

	return candidates
}
