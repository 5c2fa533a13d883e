package courier

import (
	"context"
	"log/slog"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"gopkg.in/go-playground/validator.v9"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/internal/repository/repositories"
	"github.com/kpestov/candy-delivery/internal/usecase/courier/action/unassign"
	"github.com/kpestov/candy-delivery/pkg/timerange"
	validatations "github.com/kpestov/candy-delivery/pkg/validations"
)

type CourierUseCase struct {
	trm         *manager.Manager
	validator   *validator.Validate
	logger      *slog.Logger
	CourierRepo *repositories.CourierRepo
	OrderRepo   *repositories.OrderRepo
	RegionRepo  *repositories.RegionRepo
}

func New(
	trm *manager.Manager,
	logger *slog.Logger,
	curstrg *repositories.CourierRepo,
	ordrepo *repositories.OrderRepo,
	regrepo *repositories.RegionRepo,
) *CourierUseCase {

	v := validator.New()
	v.RegisterValidation("each_HH_MM_HH_MM_time_interval", validatations.Each_HH_MM_HH_MM_time_interval)
	v.RegisterValidation("courier_type", courier_type)

	return &CourierUseCase{
		trm:         trm,
		validator:   v,
		logger:      logger,
		CourierRepo: curstrg,
		OrderRepo:   ordrepo,
		RegionRepo:  regrepo,
	}
}

// CreateCouriers ingests a bulk batch. The batch is all-or-nothing: when any
// item fails validation nothing is written and the error enumerates every
// invalid courier_id.
func (uc *CourierUseCase) CreateCouriers(ctx context.Context, couriers []CourierToCreateDTO) (*[]entity.Courier, error) {
	op := "usecase.courier.CreateCouriers"

	toCreate := make([]repositories.CourierToCreateDTO, 0, len(couriers))
	regionIDs := []int32{}
	invalid := []candydelivery.InvalidItem{}

	for _, c := range couriers {
		if err := uc.validator.Struct(c); err != nil {
			invalid = append(invalid, candydelivery.InvalidItem{ID: c.CourierID})
			continue
		}

		intervals, err := timerange.ParseAll(c.WorkingHours)
		if err != nil {
			invalid = append(invalid, candydelivery.InvalidItem{ID: c.CourierID})
			continue
		}

		regionIDs = append(regionIDs, c.Regions...)
		toCreate = append(toCreate, repositories.CourierToCreateDTO{
			ID:           c.CourierID,
			CourierType:  c.CourierType,
			Regions:      c.Regions,
			WorkingHours: intervals,
		})
	}

	if len(invalid) > 0 {
		return nil, &candydelivery.Error{
			Op:      op,
			Code:    candydelivery.EINVALID,
			Message: "couriers validation failed",
			Fields:  map[string]interface{}{"couriers": invalid},
		}
	}

	var savedCouriers *[]entity.Courier
	err := uc.trm.Do(ctx, func(ctx context.Context) error {
		if err := uc.RegionRepo.EnsureExist(ctx, regionIDs); err != nil {
			return err
		}

		var err error
		savedCouriers, err = uc.CourierRepo.BatchCreate(ctx, toCreate)
		return err
	})
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return savedCouriers, nil
}

// GetById returns the courier along with rating and earnings when it has at
// least one completed order.
func (uc *CourierUseCase) GetById(ctx context.Context, id uint64) (*entity.Courier, *CourierMetaDTO, error) {
	op := "usecase.courier.GetById"

	courier, err := uc.CourierRepo.FindById(ctx, id)
	if err != nil {
		return nil, nil, candydelivery.OpError(op, err)
	}

	completed, err := uc.OrderRepo.CompletedBy(ctx, courier.ID)
	if err != nil {
		return nil, nil, candydelivery.OpError(op, err)
	}

	meta := &CourierMetaDTO{}
	if len(completed) > 0 {
		rating, err := Rating(completed)
		if err != nil {
			return nil, nil, uc.internalAsClientError(ctx, op, err)
		}

		earnings, err := Earnings(len(completed), courier.CourierType)
		if err != nil {
			return nil, nil, uc.internalAsClientError(ctx, op, err)
		}

		meta.Rating = &rating
		meta.Earnings = &earnings
	}

	return courier, meta, nil
}

func (uc *CourierUseCase) PaginatedGetAll(ctx context.Context, offset, limit int32) (*[]entity.Courier, error) {
	op := "usecase.courier.PaginatedGetAll"

	couriers, err := uc.CourierRepo.PaginatedFetchAll(ctx, offset, limit)
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return couriers, nil
}

// Patch updates courier attributes and, in the same transaction, detaches
// every assigned order the changed courier can no longer serve.
func (uc *CourierUseCase) Patch(ctx context.Context, id uint64, patch CourierPatchDTO, now time.Time) (*entity.Courier, error) {
	op := "usecase.courier.Patch"

	if patch.Empty() {
		return nil, &candydelivery.Error{
			Op:      op,
			Code:    candydelivery.EINVALID,
			Message: "patch must carry at least one attribute",
		}
	}

	if err := uc.validator.Struct(patch); err != nil {
		return nil, candydelivery.ErrorWithCode(candydelivery.OpError(op, err), candydelivery.EINVALID)
	}

	repoPatch := repositories.CourierPatchDTO{
		CourierType: patch.CourierType,
		Regions:     patch.Regions,
	}
	if patch.WorkingHours != nil {
		intervals, err := timerange.ParseAll(patch.WorkingHours)
		if err != nil {
			return nil, candydelivery.ErrorWithCode(candydelivery.OpError(op, err), candydelivery.EINVALID)
		}
		repoPatch.WorkingHours = intervals
	}

	var updated *entity.Courier
	err := uc.trm.Do(ctx, func(ctx context.Context) error {
		if _, err := uc.CourierRepo.FindById(ctx, id); err != nil {
			return err
		}

		if patch.Regions != nil {
			if err := uc.RegionRepo.EnsureExist(ctx, patch.Regions); err != nil {
				return err
			}
		}

		var err error
		updated, err = uc.CourierRepo.Update(ctx, id, repoPatch)
		if err != nil {
			return err
		}

		detached, err := uc.detachUnserviceable(ctx, updated, now)
		if err != nil {
			return err
		}
		if len(detached) > 0 {
			uc.logger.Info("detached orders after courier patch",
				slog.Uint64("courier_id", id),
				slog.Int("orders", len(detached)),
			)
		}

		return nil
	})
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	return updated, nil
}

// UnassignCheck reports, without writing anything, which of the courier's
// assigned orders would have to be detached at now.
func (uc *CourierUseCase) UnassignCheck(ctx context.Context, id uint64, now time.Time) ([]entity.Order, error) {
	op := "usecase.courier.UnassignCheck"

	courier, err := uc.CourierRepo.FindById(ctx, id)
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	assigned, err := uc.OrderRepo.AssignedTo(ctx, courier.ID)
	if err != nil {
		return nil, candydelivery.OpError(op, err)
	}

	toDetach, err := unassign.OrdersToDetach(courier, assigned, now)
	if err != nil {
		return nil, uc.internalAsClientError(ctx, op, err)
	}

	return toDetach, nil
}

// DetachStaleAssignments sweeps every courier holding assignments and
// detaches the orders it can no longer serve. Returns the number of detached
// orders.
func (uc *CourierUseCase) DetachStaleAssignments(ctx context.Context, now time.Time) (int, error) {
	op := "usecase.courier.DetachStaleAssignments"

	ids, err := uc.CourierRepo.IDsWithAssignedOrders(ctx)
	if err != nil {
		return 0, candydelivery.OpError(op, err)
	}

	total := 0
	for _, id := range ids {
		err := uc.trm.Do(ctx, func(ctx context.Context) error {
			courier, err := uc.CourierRepo.FindById(ctx, id)
			if err != nil {
				return err
			}

			detached, err := uc.detachUnserviceable(ctx, courier, now)
			if err != nil {
				return err
			}

			total += len(detached)
			return nil
		})
		if err != nil {
			return total, candydelivery.OpError(op, err)
		}
	}

	return total, nil
}

func (uc *CourierUseCase) detachUnserviceable(ctx context.Context, courier *entity.Courier, now time.Time) ([]entity.Order, error) {
	assigned, err := uc.OrderRepo.AssignedTo(ctx, courier.ID)
	if err != nil {
		return nil, err
	}

	toDetach, err := unassign.OrdersToDetach(courier, assigned, now)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(toDetach))
	for _, o := range toDetach {
		ids = append(ids, o.ID)
	}

	if err := uc.OrderRepo.Detach(ctx, ids); err != nil {
		return nil, err
	}

	return toDetach, nil
}

// internalAsClientError logs a core defect (bad persisted data, unknown
// type) and hides the cause behind a generic client error.
func (uc *CourierUseCase) internalAsClientError(ctx context.Context, op string, err error) error {
	uc.logger.ErrorContext(ctx, "core data defect", slog.String("op", op), slog.Any("error", err))

	return &candydelivery.Error{
		Op:      op,
		Code:    candydelivery.EINVALID,
		Message: "courier data is inconsistent",
		Err:     err,
	}
}
