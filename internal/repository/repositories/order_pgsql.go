package repositories

import (
	"context"
	"errors"
	"time"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/gorm/types"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// @migration
type Order struct {
	ID            uint64 `gorm:"primaryKey"`
	Weight        float64
	RegionID      *int32  `gorm:"index"`
	CourierID     *uint64 `gorm:"index"`
	AssignTime    *time.Time
	CompleteTime  *time.Time
	DeliveryHours []OrderDeliveryHours `gorm:"foreignKey:OrderID;references:ID"`
}

// @migration
type OrderDeliveryHours struct {
	ID        uint64 `gorm:"primaryKey"`
	OrderID   uint64 `gorm:"index"`
	StartTime types.Time
	EndTime   types.Time
}

type OrderRepo struct {
	gorm   *gorm.DB
	getter *trmgorm.CtxGetter
}

func NewOrderRepo(grm *gorm.DB, getter *trmgorm.CtxGetter) *OrderRepo {
	return &OrderRepo{
		gorm:   grm,
		getter: getter,
	}
}

func (s *OrderRepo) db(ctx context.Context) *gorm.DB {
	return s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)
}

type OrderToCreateDTO struct {
	ID            uint64
	Weight        float64
	RegionID      int32
	DeliveryHours []timerange.Interval
}

func (s *OrderRepo) BatchCreate(ctx context.Context, newOrders []OrderToCreateDTO) (*[]entity.Order, error) {
	orders := make([]Order, 0, len(newOrders))
	for _, o := range newOrders {
		region := o.RegionID
		orders = append(orders, Order{
			ID:            o.ID,
			Weight:        o.Weight,
			RegionID:      &region,
			DeliveryHours: deliveryHoursRows(o.DeliveryHours),
		})
	}

	if err := s.db(ctx).CreateInBatches(orders, 20).Error; err != nil {
		return nil, err
	}

	res := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, orderToEntity(o))
	}

	return &res, nil
}

func (s *OrderRepo) FindById(ctx context.Context, id uint64) (*entity.Order, error) {
	var order Order

	err := s.db(ctx).Model(&Order{}).Preload("DeliveryHours").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &candydelivery.Error{
				Code:    candydelivery.ENOTFOUND,
				Message: "order not found",
				Err:     err,
			}
		}

		return nil, err
	}

	res := orderToEntity(order)
	return &res, nil
}

func (s *OrderRepo) PaginatedFetchAll(ctx context.Context, offset, limit int32) (*[]entity.Order, error) {
	orders := []Order{}

	err := s.db(ctx).Model(&Order{}).
		Preload("DeliveryHours").
		Order("id ASC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	res := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, orderToEntity(o))
	}

	return &res, nil
}

// forUpdateOfOrders locks selected order rows until the surrounding
// transaction commits, serializing concurrent assignment passes that touch
// the same free orders.
func forUpdateOfOrders() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}

// FindFree selects unassigned orders matching the courier's region set and
// weight ceiling. Rows are locked for update so concurrent assignment passes
// cannot claim the same order twice.
func (s *OrderRepo) FindFree(ctx context.Context, regions []int32, maxWeight float64) ([]entity.Order, error) {
	if len(regions) == 0 {
		return nil, nil
	}

	orders := []Order{}

	err := s.db(ctx).Model(&Order{}).
		Preload("DeliveryHours").
		Where("region_id IN ?", regions).
		Where("weight <= ?", maxWeight).
		Where("courier_id IS NULL AND assign_time IS NULL AND complete_time IS NULL").
		Clauses(forUpdateOfOrders()).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return ordersToEntities(orders), nil
}

// AssignedTo returns the courier's assigned, not completed orders.
func (s *OrderRepo) AssignedTo(ctx context.Context, courierID uint64) ([]entity.Order, error) {
	orders := []Order{}

	err := s.db(ctx).Model(&Order{}).
		Preload("DeliveryHours").
		Where("courier_id = ? AND assign_time IS NOT NULL AND complete_time IS NULL", courierID).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return ordersToEntities(orders), nil
}

// CompletedBy returns the courier's completed orders.
func (s *OrderRepo) CompletedBy(ctx context.Context, courierID uint64) ([]entity.Order, error) {
	orders := []Order{}

	err := s.db(ctx).Model(&Order{}).
		Preload("DeliveryHours").
		Where("courier_id = ? AND assign_time IS NOT NULL AND complete_time IS NOT NULL", courierID).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return ordersToEntities(orders), nil
}

// OneAssignedTo looks up the single order held by the courier. Zero rows
// means the order is not currently assigned to the calling courier; more
// than one row is a data-integrity condition.
func (s *OrderRepo) OneAssignedTo(ctx context.Context, courierID, orderID uint64) (*entity.Order, error) {
	orders := []Order{}

	err := s.db(ctx).Model(&Order{}).
		Preload("DeliveryHours").
		Where("id = ? AND courier_id = ? AND assign_time IS NOT NULL AND complete_time IS NULL", orderID, courierID).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	switch len(orders) {
	case 1:
		res := orderToEntity(orders[0])
		return &res, nil
	case 0:
		return nil, &candydelivery.Error{
			Code:    candydelivery.EINVALID,
			Message: "order is not assigned to this courier",
			Fields: map[string]interface{}{
				"courier_id": courierID,
				"order_id":   orderID,
			},
		}
	default:
		return nil, &candydelivery.Error{
			Code:    candydelivery.EINVALID,
			Message: "lookup matched multiple orders",
			Fields: map[string]interface{}{
				"courier_id": courierID,
				"order_id":   orderID,
				"matches":    len(orders),
			},
		}
	}
}

// Assign links the orders to the courier and stamps assign_time in one
// statement.
func (s *OrderRepo) Assign(ctx context.Context, courierID uint64, orderIDs []uint64, assignTime time.Time) error {
	if len(orderIDs) == 0 {
		return nil
	}

	return s.db(ctx).Model(&Order{}).
		Where("id IN ?", orderIDs).
		Updates(map[string]interface{}{
			"courier_id":  courierID,
			"assign_time": assignTime.UTC(),
		}).Error
}

// Detach clears the courier link and assign_time of the given orders.
func (s *OrderRepo) Detach(ctx context.Context, orderIDs []uint64) error {
	if len(orderIDs) == 0 {
		return nil
	}

	return s.db(ctx).Model(&Order{}).
		Where("id IN ?", orderIDs).
		Updates(map[string]interface{}{
			"courier_id":  nil,
			"assign_time": nil,
		}).Error
}

// Complete stamps complete_time on a single order.
func (s *OrderRepo) Complete(ctx context.Context, orderID uint64, completeTime time.Time) error {
	return s.db(ctx).Model(&Order{}).
		Where("id = ?", orderID).
		Update("complete_time", completeTime.UTC()).Error
}

func deliveryHoursRows(intervals []timerange.Interval) []OrderDeliveryHours {
	rows := make([]OrderDeliveryHours, 0, len(intervals))
	for _, i := range intervals {
		rows = append(rows, OrderDeliveryHours{
			StartTime: types.FromTime(i.Start()),
			EndTime:   types.FromTime(i.End()),
		})
	}
	return rows
}

func ordersToEntities(orders []Order) []entity.Order {
	res := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, orderToEntity(o))
	}
	return res
}

func orderToEntity(o Order) entity.Order {
	dh := make([]timerange.Interval, 0, len(o.DeliveryHours))
	for _, row := range o.DeliveryHours {
		dh = append(dh, timerange.FromClock(time.Time(row.StartTime), time.Time(row.EndTime)))
	}

	return entity.Order{
		ID:            o.ID,
		Weight:        o.Weight,
		RegionID:      o.RegionID,
		CourierID:     o.CourierID,
		DeliveryHours: dh,
		AssignTime:    o.AssignTime,
		CompleteTime:  o.CompleteTime,
	}
}
