package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/ingestion"
	"gorm.io/gorm"
)

// activeStatuses guards every terminal write: a job that already reached
// COMPLETED or FAILED must never be written again.
var activeStatuses = []entity.JobStatus{entity.JobStatusPending, entity.JobStatusProcessing}

type IngestionJobRepository struct {
	db *gorm.DB
}

func NewIngestionJobRepository(db *gorm.DB) *IngestionJobRepository {
	return &IngestionJobRepository{db: db}
}

func (r *IngestionJobRepository) Insert(ctx context.Context, job *entity.IngestionJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *IngestionJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.IngestionJob, bool, error) {
	var job entity.IngestionJob
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &job, true, nil
}

func (r *IngestionJobRepository) ListAll(ctx context.Context) ([]entity.IngestionJob, error) {
	var jobs []entity.IngestionJob
	err := r.db.WithContext(ctx).Order("started_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *IngestionJobRepository) ListByStarter(ctx context.Context, userID uuid.UUID) ([]entity.IngestionJob, error) {
	var jobs []entity.IngestionJob
	err := r.db.WithContext(ctx).Where("started_by_id = ?", userID).
		Order("started_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *IngestionJobRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.IngestionJob, error) {
	var jobs []entity.IngestionJob
	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).
		Order("started_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *IngestionJobRepository) Update(ctx context.Context, id uuid.UUID, patch ingestion.JobPatch) (*entity.IngestionJob, bool, error) {
	values := map[string]interface{}{}
	if patch.Status != nil {
		values["status"] = *patch.Status
	}
	if patch.Output != nil {
		values["output"] = *patch.Output
	}

	if len(values) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.IngestionJob{}).
			Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, false, nil
		}
	}

	return r.GetByID(ctx, id)
}

func (r *IngestionJobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.IngestionJob{}).
		Where("id = ? AND status = ?", id, entity.JobStatusPending).
		Update("status", entity.JobStatusProcessing)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinalizeWhereActive is a single conditional UPDATE keyed by job id. The
// status guard makes the cancel/finalize race safe without explicit locks:
// whichever terminal write lands first wins, the loser sees zero rows.
func (r *IngestionJobRepository) FinalizeWhereActive(ctx context.Context, id uuid.UUID, status entity.JobStatus, output string, completedAt time.Time) (ingestion.FinalizeOutcome, error) {
	res := r.db.WithContext(ctx).Model(&entity.IngestionJob{}).
		Where("id = ? AND status IN ?", id, activeStatuses).
		Updates(map[string]interface{}{
			"status":       status,
			"output":       output,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return ingestion.FinalizeNotFound, res.Error
	}
	if res.RowsAffected > 0 {
		return ingestion.FinalizeApplied, nil
	}

	_, found, err := r.GetByID(ctx, id)
	if err != nil {
		return ingestion.FinalizeNotFound, err
	}
	if !found {
		return ingestion.FinalizeNotFound, nil
	}
	return ingestion.FinalizeConflict, nil
}
