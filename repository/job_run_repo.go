package repository

import (
	"context"

	"github.com/affiliate_network/model"
	"gorm.io/gorm"
)

type JobRunRepository struct {
	db *gorm.DB
}

func NewJobRunRepository(db *gorm.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

func (r *JobRunRepository) Create(run *model.JobRun) error {
	return r.db.Create(run).Error
}

func (r *JobRunRepository) LastRun(ctx context.Context, job string) (*model.JobRun, error) {
	var run model.JobRun
	if err := r.db.WithContext(ctx).
		Where("job = ?", job).
		Order("id desc").
		First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
