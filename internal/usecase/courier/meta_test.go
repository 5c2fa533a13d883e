package courier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpestov/candy-delivery/internal/entity"
)

func completedOrder(id uint64, regionID int32, assign, complete time.Time) entity.Order {
	courierID := uint64(1)
	return entity.Order{
		ID:           id,
		RegionID:     &regionID,
		CourierID:    &courierID,
		AssignTime:   &assign,
		CompleteTime: &complete,
	}
}

func TestRatingSingleOrder(t *testing.T) {
	assign := time.Date(2021, time.March, 21, 11, 0, 0, 0, time.UTC)
	complete := assign.Add(30 * time.Minute)

	// t = 1800s, rating = (3600-1800)/3600*5 = 2.5
	rating, err := Rating([]entity.Order{completedOrder(1, 1, assign, complete)})
	require.NoError(t, err)
	assert.Equal(t, 2.5, rating)
}

func TestRatingUsesGapsBetweenCompletions(t *testing.T) {
	assign := time.Date(2021, time.March, 21, 9, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		completedOrder(1, 1, assign, assign.Add(10*time.Minute)),
		completedOrder(2, 1, assign, assign.Add(30*time.Minute)),
	}

	// gaps: 600s (assign->first) and 1200s (first->second), average 900s
	// rating = (3600-900)/3600*5 = 3.75
	rating, err := Rating(orders)
	require.NoError(t, err)
	assert.Equal(t, 3.75, rating)
}

func TestRatingTakesFastestRegion(t *testing.T) {
	assign := time.Date(2021, time.March, 21, 9, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		completedOrder(1, 1, assign, assign.Add(50*time.Minute)),
		completedOrder(2, 2, assign, assign.Add(6*time.Minute)),
	}

	// region 2 average is 360s: rating = (3600-360)/3600*5 = 4.5
	rating, err := Rating(orders)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating)
}

func TestRatingFloorsAtZero(t *testing.T) {
	assign := time.Date(2021, time.March, 21, 9, 0, 0, 0, time.UTC)

	// slower than an hour: t is capped at 3600, rating bottoms out at 0
	rating, err := Rating([]entity.Order{
		completedOrder(1, 1, assign, assign.Add(2*time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rating)
}

func TestRatingRoundsToTwoDecimals(t *testing.T) {
	assign := time.Date(2021, time.March, 21, 9, 0, 0, 0, time.UTC)

	// t = 1000s: (3600-1000)/3600*5 = 3.6111... -> 3.61
	rating, err := Rating([]entity.Order{
		completedOrder(1, 1, assign, assign.Add(1000*time.Second)),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.61, rating)
}

func TestRatingNoCompletedOrders(t *testing.T) {
	_, err := Rating(nil)
	assert.Error(t, err)
}

func TestEarnings(t *testing.T) {
	cases := []struct {
		courierType entity.CourierType
		count       int
		want        int
	}{
		{entity.FOOT, 1, 1000},
		{entity.FOOT, 3, 3000},
		{entity.BIKE, 2, 5000},
		{entity.CAR, 2, 9000},
		{entity.CAR, 0, 0},
	}

	for _, c := range cases {
		got, err := Earnings(c.count, c.courierType)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := Earnings(1, "scooter")
	assert.ErrorIs(t, err, entity.ErrInvalidCourierType)
}
