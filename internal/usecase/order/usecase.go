package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"gopkg.in/go-playground/validator.v9"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/internal/metrics"
	"github.com/kpestov/candy-delivery/internal/repository/repositories"
	"github.com/kpestov/candy-delivery/internal/usecase/order/action/assign"
	"github.com/kpestov/candy-delivery/pkg/timerange"
	validatations "github.com/kpestov/candy-delivery/pkg/validations"
)

type OrderUseCase struct {
	trm         *manager.Manager
	validator   *validator.Validate
	logger      *slog.Logger
	metrics     *metrics.Metrics
	OrderRepo   *repositories.OrderRepo
	CourierRepo *repositories.CourierRepo
	RegionRepo  *repositories.RegionRepo
}

func New(
	trm *manager.Manager,
	logger *slog.Logger,
	m *metrics.Metrics,
	ordrepo *repositories.OrderRepo,
	courrepo *repositories.CourierRepo,
	regrepo *repositories.RegionRepo,
) *OrderUseCase {

	v := validator.New()
	v.RegisterValidation("each_HH_MM_HH_MM_time_interval", validatations.Each_HH_MM_HH_MM_time_interval)
	v.RegisterValidation("order_weight", order_weight)

	return &OrderUseCase{
		trm:         trm,
		validator:   v,
		logger:      logger,
		metrics:     m,
		OrderRepo:   ordrepo,
		CourierRepo: courrepo,
		RegionRepo:  regrepo,
	}
}

// CreateOrders ingests a bulk batch, all-or-nothing; on validation failure
// the error enumerates every invalid order_id.
func (uc *OrderUseCase) CreateOrders(ctx context.Context, orders []OrderToCreateDTO) (*[]entity.Order, error) {
	op := "usecase.order.CreateOrders"

	toCreate := make([]repositories.OrderToCreateDTO, 0, len(orders))
	regionIDs := []int32{}
	invalid := []candydelivery.InvalidItem{}

	for _, o := range orders {
		if err := uc.validator.Struct(o); err != nil {
			invalid = append(invalid, candydelivery.InvalidItem{ID: o.OrderID})
			continue
		}

		intervals, err := timerange.ParseAll(o.DeliveryHours)
		if err != nil {
			invalid = append(invalid, candydelivery.InvalidItem{ID: o.OrderID})
			continue
		}

		regionIDs = append(regionIDs, o.Region)
		toCreate = append(toCreate, repositories.OrderToCreateDTO{
			ID:            o.OrderID,
			Weight:        o.Weight,
			RegionID:      o.Region,
			DeliveryHours: intervals,
		})
	}

	if len(invalid) > 0 {
		return nil, &candydelivery.Error{
			Op:      op,
			Code:    candydelivery.EINVALID,
			Message: "orders validation failed",
			Fields:  map[string]interface{}{"orders": invalid},
		}
	}

	var savedOrders *[]entity.Order
	err := uc.trm.Do(ctx, func(ctx context.Context) error {
		if err := uc.RegionRepo.EnsureExist(ctx, regionIDs); err != nil {
			return err
		}

		var err error
		savedOrders, err = uc.OrderRepo.BatchCreate(ctx, toCreate)
		return err
	})
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return savedOrders, nil
}

func (uc *OrderUseCase) GetById(ctx context.Context, id uint64) (*entity.Order, error) {
	const op = "usecase.order.GetById"

	order, err := uc.OrderRepo.FindById(ctx, id)
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return order, nil
}

func (uc *OrderUseCase) PaginatedGetAll(ctx context.Context, offset, limit int32) (*[]entity.Order, error) {
	op := "usecase.order.PaginatedGetAll"

	orders, err := uc.OrderRepo.PaginatedFetchAll(ctx, offset, limit)
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return orders, nil
}

// Assign runs one assignment pass for the courier. The reads, the greedy
// selection and the writes share one transaction, so concurrent passes
// cannot claim the same free order twice.
func (uc *OrderUseCase) Assign(ctx context.Context, courierID uint64, now time.Time) (*AssignResultDTO, error) {
	op := "usecase.order.Assign"

	var result *AssignResultDTO
	err := uc.trm.Do(ctx, func(ctx context.Context) error {
		courier, err := uc.CourierRepo.FindById(ctx, courierID)
		if err != nil {
			return err
		}

		assigned, err := uc.OrderRepo.AssignedTo(ctx, courier.ID)
		if err != nil {
			return err
		}

		action, err := assign.New(courier, assigned, now)
		if err != nil {
			return uc.internalAsClientError(ctx, op, err)
		}

		pool, err := uc.OrderRepo.FindFree(ctx, courier.Regions, action.MaxWeight())
		if err != nil {
			return err
		}

		res := action.Select(pool)

		newlyAssigned := make([]uint64, 0, len(res.NewlyAssigned))
		for _, o := range res.NewlyAssigned {
			newlyAssigned = append(newlyAssigned, o.ID)
		}
		if err := uc.OrderRepo.Assign(ctx, courier.ID, newlyAssigned, now); err != nil {
			return err
		}

		result = &AssignResultDTO{Orders: res.Orders}
		if len(res.Orders) > 0 {
			last := res.Orders[len(res.Orders)-1]
			result.AssignTime = last.AssignTime
		}

		uc.metrics.AssignPasses.Inc()
		uc.metrics.AssignedOrders.Add(float64(len(newlyAssigned)))

		return nil
	})
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return result, nil
}

// Complete marks an order delivered on behalf of the courier that holds it.
func (uc *OrderUseCase) Complete(ctx context.Context, toComplete OrderToCompleteDTO) (uint64, error) {
	const op = "usecase.order.Complete"

	if err := uc.validator.Struct(toComplete); err != nil {
		return 0, candydelivery.ErrorWithCode(candydelivery.OpError(op, err), candydelivery.EINVALID)
	}

	err := uc.trm.Do(ctx, func(ctx context.Context) error {
		if _, err := uc.CourierRepo.FindById(ctx, toComplete.CourierID); err != nil {
			return err
		}

		order, err := uc.OrderRepo.OneAssignedTo(ctx, toComplete.CourierID, toComplete.OrderID)
		if err != nil {
			return err
		}

		if err := validateCompletion(order, toComplete.CompleteTime); err != nil {
			return err
		}

		return uc.OrderRepo.Complete(ctx, order.ID, toComplete.CompleteTime)
	})
	if err != nil {
		return 0, candydelivery.OpError(op, err)
	}

	return toComplete.OrderID, nil
}

// validateCompletion enforces the completion ordering invariant:
// complete_time must be strictly greater than the order's assign_time.
func validateCompletion(order *entity.Order, completeTime time.Time) error {
	if order.AssignTime == nil {
		return &candydelivery.Error{
			Code:    candydelivery.EINVALID,
			Message: "order has not been assigned",
		}
	}

	if !completeTime.After(*order.AssignTime) {
		return &candydelivery.Error{
			Code:    candydelivery.EINVALID,
			Message: "complete_time must be greater than assign_time",
			Fields: map[string]interface{}{
				"order_id": order.ID,
			},
		}
	}

	return nil
}

func (uc *OrderUseCase) internalAsClientError(ctx context.Context, op string, err error) error {
	uc.logger.ErrorContext(ctx, "core data defect", slog.String("op", op), slog.Any("error", err))

	return &candydelivery.Error{
		Op:      op,
		Code:    candydelivery.EINVALID,
		Message: "courier data is inconsistent",
		Err:     err,
	}
}
