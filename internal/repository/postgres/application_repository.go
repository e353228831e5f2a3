package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func (r *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	if application.Status == "" {
		application.Status = models.StatusApplied
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error
	if err != nil {
		return translate(err)
	}
	return r.db.WithContext(ctx).Preload("Applicant").Preload("Job").
		First(application, application.ID).Error
}

func (r *ApplicationRepository) Exists(ctx context.Context, applicantID, jobID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).Preload("Applicant").Preload("Job").First(&application, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) (*models.Application, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List applies the identity scope in SQL through a join on applicants.
func (r *ApplicationRepository) List(ctx context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	tx := r.db.WithContext(ctx).Model(&models.Application{}).Preload("Applicant").Preload("Job")
	if filter.ApplicantEmail != "" {
		tx = tx.Joins("JOIN applicants ON applicants.id = applications.applicant_id").
			Where("applicants.email = ?", filter.ApplicantEmail)
	}
	if filter.Status != "" {
		tx = tx.Where("applications.status = ?", filter.Status)
	}
	if filter.JobID != 0 {
		tx = tx.Where("applications.job_id = ?", filter.JobID)
	}
	if filter.ApplicantID != 0 {
		tx = tx.Where("applications.applicant_id = ?", filter.ApplicantID)
	}
	var items []models.Application
	if err := tx.Order("applications.created_at DESC, applications.id DESC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
