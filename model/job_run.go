package model

import (
	"time"

	"gorm.io/gorm"
)

// Batch job names.
const (
	JobDailyReturns = "daily_returns"
	JobPayoutCycle  = "payout_cycle"
)

// 批处理执行记录表（job_runs）
// One row per batch run; the operator-facing trail for the scheduled jobs.
type JobRun struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Job         string    `gorm:"column:job;type:varchar(32);not null;index:idx_job_date" json:"job"`
	RunDate     time.Time `gorm:"column:run_date;not null;index:idx_job_date" json:"run_date"`
	Processed   int       `gorm:"column:processed;not null" json:"processed"`
	Skipped     int       `gorm:"column:skipped;not null" json:"skipped"`
	Failed      int       `gorm:"column:failed;not null" json:"failed"`
	TotalAmount float64   `gorm:"column:total_amount;type:decimal(15,2);not null" json:"total_amount"`
	CreatedAt   time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (JobRun) TableName() string {
	return "job_runs"
}

// helper: create tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Member{}, &Transaction{}, &Payout{}, &JobRun{})
}
