package mood

import (
	"context"
	"errors"

	"github.com/mood-space/core/internal/models"
	"github.com/mood-space/core/internal/pkg/pagination"
	"github.com/mood-space/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Repository persists mood rows. There is no update or delete.
type Repository interface {
	Create(ctx context.Context, m *models.MoodEntryModel) error
	List(ctx context.Context, userID string, q pagination.Query) ([]models.MoodEntryModel, response.Pagination, error)
	Latest(ctx context.Context, userID string) (*models.MoodEntryModel, error)
}

type gormRepository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository { return &gormRepository{db: db} }

func (r *gormRepository) Create(ctx context.Context, m *models.MoodEntryModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) List(ctx context.Context, userID string, q pagination.Query) ([]models.MoodEntryModel, response.Pagination, error) {
	tx := r.db.WithContext(ctx).Model(&models.MoodEntryModel{}).
		Where("user_id = ?", userID).
		Order("timestamp DESC")
	var items []models.MoodEntryModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (r *gormRepository) Latest(ctx context.Context, userID string) (*models.MoodEntryModel, error) {
	var m models.MoodEntryModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
