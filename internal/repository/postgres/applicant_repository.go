package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type ApplicantRepository struct {
	db *gorm.DB
}

func (r *ApplicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return translate(r.db.WithContext(ctx).Create(applicant).Error)
}

func (r *ApplicantRepository) Update(ctx context.Context, applicant *models.Applicant) error {
	res := r.db.WithContext(ctx).Model(&models.Applicant{}).
		Where("id = ?", applicant.ID).
		Updates(map[string]any{
			"name":   applicant.Name,
			"email":  applicant.Email,
			"phone":  applicant.Phone,
			"resume": applicant.Resume,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ApplicantRepository) GetByID(ctx context.Context, id uint) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.WithContext(ctx).First(&applicant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &applicant, nil
}

func (r *ApplicantRepository) GetByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&applicant).Error; err != nil {
		return nil, translate(err)
	}
	return &applicant, nil
}

func (r *ApplicantRepository) List(ctx context.Context, filter repository.ApplicantFilter) ([]models.Applicant, error) {
	tx := r.db.WithContext(ctx).Model(&models.Applicant{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	var items []models.Applicant
	if err := tx.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *ApplicantRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Applicant{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ApplicantRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Applicant{}).Count(&n).Error
	return n, translate(err)
}
