package repositories

import (
	"context"
	"errors"
	"time"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"github.com/lib/pq"
	"gorm.io/gorm"

	candydelivery "github.com/kpestov/candy-delivery"
	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/pkg/gorm/types"
	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// @migration
type Courier struct {
	ID           uint64 `gorm:"primaryKey"`
	CourierType  string
	Regions      pq.Int32Array         `gorm:"type:integer[]"`
	WorkingHours []CourierWorkingHours `gorm:"foreignKey:CourierID;references:ID"`
}

// @migration
type CourierWorkingHours struct {
	ID        uint64 `gorm:"primaryKey"`
	CourierID uint64 `gorm:"index"`
	StartTime types.Time
	EndTime   types.Time
}

type CourierRepo struct {
	gorm   *gorm.DB
	getter *trmgorm.CtxGetter
}

func NewCourierRepo(grm *gorm.DB, getter *trmgorm.CtxGetter) *CourierRepo {
	return &CourierRepo{
		gorm:   grm,
		getter: getter,
	}
}

func (s *CourierRepo) db(ctx context.Context) *gorm.DB {
	return s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)
}

type CourierToCreateDTO struct {
	ID           uint64
	CourierType  string
	Regions      []int32
	WorkingHours []timerange.Interval
}

type CourierPatchDTO struct {
	CourierType  *string
	Regions      []int32
	WorkingHours []timerange.Interval
}

func (s *CourierRepo) BatchCreate(ctx context.Context, newCouriers []CourierToCreateDTO) (*[]entity.Courier, error) {
	couriers := make([]Courier, 0, len(newCouriers))
	for _, c := range newCouriers {
		couriers = append(couriers, Courier{
			ID:           c.ID,
			CourierType:  c.CourierType,
			Regions:      c.Regions,
			WorkingHours: workingHoursRows(c.WorkingHours),
		})
	}

	if err := s.db(ctx).CreateInBatches(couriers, 20).Error; err != nil {
		return nil, err
	}

	res := make([]entity.Courier, 0, len(couriers))
	for _, c := range couriers {
		res = append(res, courierToEntity(c))
	}

	return &res, nil
}

func (s *CourierRepo) FindById(ctx context.Context, id uint64) (*entity.Courier, error) {
	var courier Courier

	err := s.db(ctx).Model(&Courier{}).Preload("WorkingHours").First(&courier, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &candydelivery.Error{
				Code:    candydelivery.ENOTFOUND,
				Message: "courier not found",
				Err:     err,
			}
		}

		return nil, err
	}

	res := courierToEntity(courier)
	return &res, nil
}

func (s *CourierRepo) PaginatedFetchAll(ctx context.Context, offset, limit int32) (*[]entity.Courier, error) {
	couriers := []Courier{}

	err := s.db(ctx).Model(&Courier{}).
		Preload("WorkingHours").
		Order("id ASC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&couriers).Error
	if err != nil {
		return nil, err
	}

	res := make([]entity.Courier, 0, len(couriers))
	for _, c := range couriers {
		res = append(res, courierToEntity(c))
	}

	return &res, nil
}

// Update applies a partial attribute patch. Working-hour rows are replaced
// wholesale when the patch carries a schedule.
func (s *CourierRepo) Update(ctx context.Context, id uint64, patch CourierPatchDTO) (*entity.Courier, error) {
	db := s.db(ctx)

	updates := map[string]interface{}{}
	if patch.CourierType != nil {
		updates["courier_type"] = *patch.CourierType
	}
	if patch.Regions != nil {
		updates["regions"] = pq.Int32Array(patch.Regions)
	}
	if len(updates) > 0 {
		if err := db.Model(&Courier{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if patch.WorkingHours != nil {
		if err := db.Where("courier_id = ?", id).Delete(&CourierWorkingHours{}).Error; err != nil {
			return nil, err
		}

		rows := workingHoursRows(patch.WorkingHours)
		for i := range rows {
			rows[i].CourierID = id
		}
		if len(rows) > 0 {
			if err := db.Create(&rows).Error; err != nil {
				return nil, err
			}
		}
	}

	return s.FindById(ctx, id)
}

// IDsWithAssignedOrders lists couriers that currently hold at least one
// assigned, not completed order.
func (s *CourierRepo) IDsWithAssignedOrders(ctx context.Context) ([]uint64, error) {
	ids := []uint64{}

	err := s.db(ctx).Model(&Order{}).
		Distinct("courier_id").
		Where("courier_id IS NOT NULL AND assign_time IS NOT NULL AND complete_time IS NULL").
		Pluck("courier_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func workingHoursRows(intervals []timerange.Interval) []CourierWorkingHours {
	rows := make([]CourierWorkingHours, 0, len(intervals))
	for _, i := range intervals {
		rows = append(rows, CourierWorkingHours{
			StartTime: types.FromTime(i.Start()),
			EndTime:   types.FromTime(i.End()),
		})
	}
	return rows
}

func courierToEntity(c Courier) entity.Courier {
	wh := make([]timerange.Interval, 0, len(c.WorkingHours))
	for _, row := range c.WorkingHours {
		wh = append(wh, timerange.FromClock(time.Time(row.StartTime), time.Time(row.EndTime)))
	}

	return entity.Courier{
		ID:           c.ID,
		CourierType:  entity.CourierType(c.CourierType),
		Regions:      c.Regions,
		WorkingHours: wh,
	}
}
