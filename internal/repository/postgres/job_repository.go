package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type JobRepository struct {
	db *gorm.DB
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	// IsActive carries no column default, so a false value is written as is.
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"title":       job.Title,
			"description": job.Description,
			"is_active":   job.IsActive,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context) ([]models.Job, error) {
	var items []models.Job
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Job{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var n int64
	err := tx.Count(&n).Error
	return n, translate(err)
}
