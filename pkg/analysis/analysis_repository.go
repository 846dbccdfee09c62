package analysis

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	AnalysisRepository interface {
		CreateWithCounters(ctx context.Context, result *entities.AnalysisResult) error
		GetResultsByUser(ctx context.Context, userID string, page, limit int) ([]*entities.AnalysisResult, int64, error)
		GetAllResultsByUser(ctx context.Context, userID string) ([]*entities.AnalysisResult, error)
	}

	analysisRepository struct {
		db *gorm.DB
	}
)

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// CreateWithCounters persists the result row and bumps the owner's upload and
// analyzed counters in one transaction. The increments run inside the
// database so concurrent analyses by the same owner cannot lose updates.
func (r *analysisRepository) CreateWithCounters(ctx context.Context, result *entities.AnalysisResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}

		update := tx.Model(&entities.User{}).
			Where("id = ?", result.UserID).
			Updates(map[string]interface{}{
				"total_uploads":  gorm.Expr("total_uploads + ?", 1),
				"total_analyzed": gorm.Expr("total_analyzed + ?", 1),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}

		return nil
	})
}

func (r *analysisRepository) GetResultsByUser(ctx context.Context, userID string, page, limit int) ([]*entities.AnalysisResult, int64, error) {
	var results []*entities.AnalysisResult
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.AnalysisResult{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, count, nil
}

func (r *analysisRepository) GetAllResultsByUser(ctx context.Context, userID string) ([]*entities.AnalysisResult, error) {
	var results []*entities.AnalysisResult

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
