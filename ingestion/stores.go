package ingestion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/infra/produce"
)

// FinalizeOutcome is the result of a conditional terminal write.
type FinalizeOutcome int

const (
	// FinalizeApplied means the job was active and the terminal write took effect.
	FinalizeApplied FinalizeOutcome = iota
	// FinalizeConflict means the job was already terminal; nothing was written.
	FinalizeConflict
	// FinalizeNotFound means no job with that id exists.
	FinalizeNotFound
)

// JobPatch carries the fields an admin update may set. Nil fields are left
// untouched.
type JobPatch struct {
	Status *entity.JobStatus
	Output *string
}

// JobStore is the persistent job table consumed by the service. Lookups
// report existence through the boolean; a missing record is not an error.
type JobStore interface {
	Insert(ctx context.Context, job *entity.IngestionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.IngestionJob, bool, error)

	// ListAll, ListByStarter and ListByDocument return jobs ordered by
	// started_at descending.
	ListAll(ctx context.Context) ([]entity.IngestionJob, error)
	ListByStarter(ctx context.Context, userID uuid.UUID) ([]entity.IngestionJob, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.IngestionJob, error)

	// Update applies the patch unconditionally. The boolean reports whether
	// the job exists.
	Update(ctx context.Context, id uuid.UUID, patch JobPatch) (*entity.IngestionJob, bool, error)

	// MarkProcessing moves a PENDING job to PROCESSING. It returns false
	// without writing when the job is no longer PENDING or does not exist.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)

	// FinalizeWhereActive performs the single atomic terminal write: it sets
	// status, output and completedAt only while the job is still PENDING or
	// PROCESSING. A terminal job is never overwritten.
	FinalizeWhereActive(ctx context.Context, id uuid.UUID, status entity.JobStatus, output string, completedAt time.Time) (FinalizeOutcome, error)
}

// DocumentStore resolves the target document of a job.
type DocumentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, bool, error)
}

// IdentityStore resolves an actor id to a user record.
type IdentityStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, bool, error)
}

// Logger matches infra.LoggerClient.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// EventPublisher matches produce.IngestionEventService.
type EventPublisher interface {
	PublishJobEvent(ctx context.Context, msg produce.JobEventMessage) error
}
