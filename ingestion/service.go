// Package ingestion owns the ingestion job lifecycle: creating jobs,
// driving them to a terminal state in the background, and arbitrating who
// may read, mutate or cancel them.
package ingestion

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/authz"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/infra/produce"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultProcessingDelay = 5 * time.Second

	cancelledOutput     = "Job was cancelled by user"
	failureOutput       = "Failed to process document. Error: Could not parse file format."
	successOutputFormat = "Successfully processed %s. Extracted content and metadata."
	internalErrorFormat = "Error processing job: %v"
)

// Config tunes the service. The zero value is production behavior.
type Config struct {
	// ProcessingDelay is the simulated processing time before a job
	// finalizes. Zero means the 5 second default.
	ProcessingDelay time.Duration
}

type Service struct {
	jobs      JobStore
	documents DocumentStore
	users     IdentityStore
	logger    Logger
	events    EventPublisher

	delay   time.Duration
	outcome func() bool // reports success of the simulated unit of work

	finalized metric.Int64Counter

	wg sync.WaitGroup
}

func NewService(cfg Config, jobs JobStore, documents DocumentStore, users IdentityStore, logger Logger, events EventPublisher) *Service {
	delay := cfg.ProcessingDelay
	if delay == 0 {
		delay = defaultProcessingDelay
	}
	if logger == nil {
		logger = nopLogger{}
	}

	meter := otel.Meter("github.com/tnqbao/gau-document-service/ingestion")
	finalized, _ := meter.Int64Counter("ingestion.jobs.finalized",
		metric.WithDescription("Ingestion jobs that reached a terminal state"))

	return &Service{
		jobs:      jobs,
		documents: documents,
		users:     users,
		logger:    logger,
		events:    events,
		delay:     delay,
		outcome:   func() bool { return rand.Float64() > 0.2 },
		finalized: finalized,
	}
}

// Create validates the document and the actor, persists a PENDING job and
// schedules exactly one background execution for it. It returns as soon as
// the job is durably recorded; the background work is not awaited.
func (s *Service) Create(ctx context.Context, documentID, actorID uuid.UUID) (*entity.IngestionJob, error) {
	document, found, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}

	user, found, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !found || !user.IsActive {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}

	actor := authz.Actor{ID: actorID, Role: user.Role}
	if !authz.CanAccessDocument(actor, document) {
		return nil, fmt.Errorf("%w: you do not have permission to create an ingestion job for this document", ErrUnauthorized)
	}

	job := &entity.IngestionJob{
		ID:          uuid.New(),
		DocumentID:  documentID,
		StartedByID: actorID,
		Status:      entity.JobStatusPending,
		StartedAt:   time.Now(),
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, produce.JobEventCreated, job)

	s.wg.Add(1)
	go s.runJob(job.ID)

	return job, nil
}

// Get returns the job when it exists and the actor started it or is admin.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor authz.Actor) (*entity.IngestionJob, error) {
	job, found, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: ingestion job %s", ErrNotFound, id)
	}
	if !authz.CanAccessJob(actor, job) {
		return nil, fmt.Errorf("%w: you do not have permission to access this ingestion job", ErrUnauthorized)
	}
	return job, nil
}

// List returns all jobs for admins and the actor's own jobs otherwise,
// newest first.
func (s *Service) List(ctx context.Context, actor authz.Actor) ([]entity.IngestionJob, error) {
	if actor.Role == entity.RoleAdmin {
		return s.jobs.ListAll(ctx)
	}
	return s.jobs.ListByStarter(ctx, actor.ID)
}

// ListByDocument returns every job targeting the document, newest first.
// Access is checked against the document's owner, not each job's starter:
// a document owner sees jobs that other users started on their document.
func (s *Service) ListByDocument(ctx context.Context, documentID uuid.UUID, actor authz.Actor) ([]entity.IngestionJob, error) {
	document, found, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}
	if !authz.CanAccessDocument(actor, document) {
		return nil, fmt.Errorf("%w: you do not have permission to view ingestion jobs for this document", ErrUnauthorized)
	}
	return s.jobs.ListByDocument(ctx, documentID)
}

// Update lets an admin force any status or output on a job. No transition
// legality is enforced here; this is an operator escape hatch, distinct
// from the automatic driver transitions.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch JobPatch, actor authz.Actor) (*entity.IngestionJob, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: only administrators can update ingestion jobs", ErrUnauthorized)
	}
	job, found, err := s.jobs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: ingestion job %s", ErrNotFound, id)
	}
	return job, nil
}

// Cancel marks an active job FAILED. It races with the background driver;
// whichever performs the terminal write first wins, the other sees a
// conflict.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor authz.Actor) (*entity.IngestionJob, error) {
	job, found, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: ingestion job %s", ErrNotFound, id)
	}
	if !authz.CanAccessJob(actor, job) {
		return nil, fmt.Errorf("%w: you do not have permission to cancel this ingestion job", ErrUnauthorized)
	}
	if job.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot cancel job with status %s", ErrInvalidState, job.Status)
	}

	outcome, err := s.jobs.FinalizeWhereActive(ctx, id, entity.JobStatusFailed, cancelledOutput, time.Now())
	if err != nil {
		return nil, err
	}
	switch outcome {
	case FinalizeConflict:
		return nil, fmt.Errorf("%w: job was finalized concurrently", ErrConflict)
	case FinalizeNotFound:
		return nil, fmt.Errorf("%w: ingestion job %s", ErrNotFound, id)
	}

	job, found, err = s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: ingestion job %s", ErrNotFound, id)
	}

	s.recordFinal(ctx, job)
	s.publishEvent(ctx, produce.JobEventCancelled, job)

	return job, nil
}

// Wait blocks until all background executions started so far have returned.
// Used on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) publishEvent(ctx context.Context, event string, job *entity.IngestionJob) {
	if s.events == nil {
		return
	}
	msg := produce.JobEventMessage{
		Event:      event,
		JobID:      job.ID.String(),
		DocumentID: job.DocumentID.String(),
		UserID:     job.StartedByID.String(),
		Status:     string(job.Status),
	}
	if job.Output != nil {
		msg.Output = *job.Output
	}
	if err := s.events.PublishJobEvent(ctx, msg); err != nil {
		// Event delivery must never fail the operation itself.
		s.logger.WarningWithContextf(ctx, "[Ingestion] Failed to publish %s event for job %s: %v", event, job.ID, err)
	}
}

func (s *Service) recordFinal(ctx context.Context, job *entity.IngestionJob) {
	s.finalized.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(job.Status))))
}

type nopLogger struct{}

func (nopLogger) InfoWithContextf(context.Context, string, ...interface{})         {}
func (nopLogger) WarningWithContextf(context.Context, string, ...interface{})      {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...interface{}) {}
