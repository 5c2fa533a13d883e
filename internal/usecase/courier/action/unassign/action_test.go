package unassign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

func hours(t *testing.T, ss ...string) []timerange.Interval {
	t.Helper()

	intervals, err := timerange.ParseAll(ss)
	require.NoError(t, err)
	return intervals
}

func region(id int32) *int32 { return &id }

func ids(orders []entity.Order) []uint64 {
	out := make([]uint64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func assignedOrder(id uint64, weight float64, regionID int32, now time.Time, dh []timerange.Interval) entity.Order {
	assignTime := now.Add(-time.Hour)
	courierID := uint64(1)
	return entity.Order{
		ID:            id,
		Weight:        weight,
		RegionID:      region(regionID),
		CourierID:     &courierID,
		DeliveryHours: dh,
		AssignTime:    &assignTime,
	}
}

func TestDetachAllWhenDayOver(t *testing.T) {
	now := time.Date(2021, time.March, 21, 19, 0, 0, 0, time.UTC)

	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.FOOT,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-18:00"),
	}
	assigned := []entity.Order{
		assignedOrder(1, 1, 1, now, hours(t, "09:00-21:00")),
		assignedOrder(2, 2, 1, now, hours(t, "09:00-21:00")),
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2}, ids(got))
}

func TestDetachAllWhenScheduleRemoved(t *testing.T) {
	now := time.Date(2021, time.March, 21, 11, 0, 0, 0, time.UTC)

	courier := &entity.Courier{ID: 1, CourierType: entity.FOOT, Regions: []int32{1}}
	assigned := []entity.Order{
		assignedOrder(1, 1, 1, now, hours(t, "09:00-18:00")),
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids(got))
}

func TestDetachCriteria(t *testing.T) {
	now := time.Date(2021, time.March, 21, 10, 0, 0, 0, time.UTC)

	// downgraded to foot (capacity 10), region 2 dropped, hours narrowed
	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.FOOT,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-12:00"),
	}

	assigned := []entity.Order{
		assignedOrder(1, 12, 1, now, hours(t, "09:00-18:00")),  // too heavy now
		assignedOrder(2, 1, 2, now, hours(t, "09:00-18:00")),   // region dropped
		assignedOrder(3, 1, 1, now, hours(t, "14:00-18:00")),   // no window overlap left
		assignedOrder(4, 1, 1, now, hours(t, "11:00-13:00")),   // still fine
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, ids(got))
}

func TestDetachDeletedRegion(t *testing.T) {
	now := time.Date(2021, time.March, 21, 10, 0, 0, 0, time.UTC)

	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.CAR,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-18:00"),
	}

	orphan := assignedOrder(1, 1, 1, now, hours(t, "09:00-18:00"))
	orphan.RegionID = nil

	got, err := OrdersToDetach(courier, []entity.Order{orphan}, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids(got))
}

func TestDetachReportsEachOrderOnce(t *testing.T) {
	now := time.Date(2021, time.March, 21, 10, 0, 0, 0, time.UTC)

	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.FOOT,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-12:00"),
	}

	// violates weight, region and window criteria at once
	assigned := []entity.Order{
		assignedOrder(1, 20, 5, now, hours(t, "14:00-18:00")),
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids(got))
}

func TestDetachNothingToDo(t *testing.T) {
	now := time.Date(2021, time.March, 21, 10, 0, 0, 0, time.UTC)

	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.BIKE,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-18:00"),
	}
	assigned := []entity.Order{
		assignedOrder(1, 1, 1, now, hours(t, "09:00-18:00")),
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = OrdersToDetach(courier, nil, now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKeepOrderFromElapsedWindowOfSplitSchedule(t *testing.T) {
	// midday break: the morning window is over but the afternoon one is
	// still ahead, so the working day itself is not over
	now := time.Date(2021, time.March, 21, 13, 0, 0, 0, time.UTC)

	courier := &entity.Courier{
		ID:           1,
		CourierType:  entity.FOOT,
		Regions:      []int32{1},
		WorkingHours: hours(t, "09:00-12:00", "14:00-18:00"),
	}
	assigned := []entity.Order{
		// assigned during the morning window; stays with the courier even
		// though its delivery window has already elapsed
		assignedOrder(1, 1, 1, now, hours(t, "10:00-11:00")),
		// never overlapped any declared window
		assignedOrder(2, 1, 1, now, hours(t, "12:30-13:30")),
	}

	got, err := OrdersToDetach(courier, assigned, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(got))
}
