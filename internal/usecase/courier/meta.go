package courier

import (
	"math"
	"sort"
	"time"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/internal/entity"
)

const ratingWindowSeconds = 60 * 60

// Rating computes the courier rating from its completed orders:
//
//	rating = (3600 - min(t, 3600)) / 3600 * 5, rounded to two decimals
//
// where t is the minimum over regions of the average per-order delivery time
// in seconds. Within a region an order's delivery time is the gap between
// its complete_time and the next-later order's complete_time; the
// chronologically earliest order is measured from its own assign_time.
func Rating(completed []entity.Order) (float64, error) {
	if len(completed) == 0 {
		return 0, &candydelivery.Error{
			Code:    candydelivery.EINVALID,
			Message: "courier has no completed orders",
		}
	}

	minAverage := math.Inf(1)
	for _, orders := range groupByRegion(completed) {
		if avg := averageDeliverySeconds(orders); avg < minAverage {
			minAverage = avg
		}
	}

	t := math.Min(minAverage, ratingWindowSeconds)
	rating := (ratingWindowSeconds - t) / ratingWindowSeconds * 5

	return math.Round(rating*100) / 100, nil
}

// Earnings is 500 per completed order scaled by the per-type coefficient.
func Earnings(completedCount int, courierType entity.CourierType) (int, error) {
	coefficient, err := courierType.EarningsCoefficient()
	if err != nil {
		return 0, err
	}

	return 500 * completedCount * coefficient, nil
}

// averageDeliverySeconds walks a region's orders latest-first and averages
// the complete_time gaps between neighbours.
func averageDeliverySeconds(orders []entity.Order) float64 {
	sorted := append([]entity.Order{}, orders...)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].CompleteTime.After(*sorted[b].CompleteTime)
	})

	var total float64
	for i, order := range sorted {
		var previous time.Time
		if i < len(sorted)-1 {
			previous = *sorted[i+1].CompleteTime
		} else {
			previous = *order.AssignTime
		}

		total += order.CompleteTime.Sub(previous).Seconds()
	}

	return total / float64(len(sorted))
}

// groupByRegion buckets completed orders by region id. Orders whose region
// row was deleted share one bucket.
func groupByRegion(orders []entity.Order) map[int32][]entity.Order {
	grouped := map[int32][]entity.Order{}
	for _, o := range orders {
		var key int32
		if o.RegionID != nil {
			key = *o.RegionID
		}
		grouped[key] = append(grouped[key], o)
	}
	return grouped
}
