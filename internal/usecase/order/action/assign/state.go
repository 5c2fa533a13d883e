package assign

import (
	"sort"
	"time"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// weightEpsilon absorbs float noise in capacity arithmetic; order weights
// carry at most two decimal places so it can never admit a real overrun.
const weightEpsilon = 1e-9

type courierState struct {
	assigned     []entity.Order
	workingHours []timerange.Interval
	maxWeight    float64
	spaceLeft    float64
}

func initCourierState(courier *entity.Courier, assigned []entity.Order, now time.Time) (*courierState, error) {
	maxWeight, err := courier.CourierType.MaxWeight()
	if err != nil {
		return nil, err
	}

	spaceLeft := maxWeight
	for _, o := range assigned {
		spaceLeft -= o.Weight
	}

	var workingHours []timerange.Interval
	if len(courier.WorkingHours) > 0 {
		workingHours = timerange.PruneElapsed(
			timerange.ResolveAll(courier.WorkingHours, now),
			now,
		)
	}

	return &courierState{
		assigned:     assigned,
		workingHours: workingHours,
		maxWeight:    maxWeight,
		spaceLeft:    spaceLeft,
	}, nil
}

// dayOver reports that no working window remains: either the courier never
// declared a schedule or every declared window has elapsed.
func (s *courierState) dayOver() bool {
	return len(s.workingHours) == 0
}

func (s *courierState) exhausted() bool {
	return s.spaceLeft <= weightEpsilon
}

func (s *courierState) fits(weight float64) bool {
	return weight <= s.spaceLeft+weightEpsilon
}

func (s *courierState) take(weight float64) {
	s.spaceLeft -= weight
}

type candidate struct {
	order   entity.Order
	windows []timerange.Interval // resolved, pruned, start-ascending
}

type regionGroups struct {
	regions  []int32
	byRegion map[int32][]candidate
}

// groupByRegion buckets candidates by region id, keeping encounter order of
// the regions themselves. Orders without a region (the region row was
// deleted) cannot be matched against the courier's region set and are
// skipped.
func groupByRegion(candidates []candidate) regionGroups {
	groups := regionGroups{byRegion: map[int32][]candidate{}}

	for _, c := range candidates {
		if c.order.RegionID == nil {
			continue
		}

		region := *c.order.RegionID
		if _, ok := groups.byRegion[region]; !ok {
			groups.regions = append(groups.regions, region)
		}
		groups.byRegion[region] = append(groups.byRegion[region], c)
	}

	return groups
}

// sortCandidates orders a region group lightest first; among equal weights
// the order whose first remaining delivery window closes soonest wins.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].order.Weight != candidates[b].order.Weight {
			return candidates[a].order.Weight < candidates[b].order.Weight
		}
		return candidates[a].windows[0].End().Before(candidates[b].windows[0].End())
	})
}
