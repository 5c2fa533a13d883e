package repositories

import (
	"context"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// @migration
type Region struct {
	ID int32 `gorm:"primaryKey"`
}

type RegionRepo struct {
	gorm   *gorm.DB
	getter *trmgorm.CtxGetter
}

func NewRegionRepo(grm *gorm.DB, getter *trmgorm.CtxGetter) *RegionRepo {
	return &RegionRepo{
		gorm:   grm,
		getter: getter,
	}
}

func (s *RegionRepo) db(ctx context.Context) *gorm.DB {
	return s.getter.DefaultTrOrDB(ctx, s.gorm).WithContext(ctx)
}

// EnsureExist upserts every referenced region id, ignoring ones already
// present.
func (s *RegionRepo) EnsureExist(ctx context.Context, ids []int32) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int32]struct{}, len(ids))
	regions := make([]Region, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		regions = append(regions, Region{ID: id})
	}

	return s.db(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&regions).Error
}
