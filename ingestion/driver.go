package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/infra/produce"
)

// runJob drives one job through PROCESSING to a terminal state. It runs on
// its own goroutine, detached from the request that created the job, and
// never lets an error escape: every failure ends up in the job record.
func (s *Service) runJob(id uuid.UUID) {
	defer s.wg.Done()

	// The request context is gone by the time this runs.
	ctx := context.Background()

	finalized := false
	defer func() {
		if r := recover(); r != nil && !finalized {
			s.finalize(ctx, id, entity.JobStatusFailed, fmt.Sprintf(internalErrorFormat, r))
		}
	}()

	applied, err := s.jobs.MarkProcessing(ctx, id)
	if err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Ingestion] Failed to mark job %s processing", id)
		finalized = s.finalize(ctx, id, entity.JobStatusFailed, fmt.Sprintf(internalErrorFormat, err))
		return
	}
	if !applied {
		// Cancelled (or otherwise finalized) before processing began.
		s.logger.InfoWithContextf(ctx, "[Ingestion] Job %s no longer pending, skipping execution", id)
		finalized = true
		return
	}

	// Simulated processing time.
	time.Sleep(s.delay)

	job, found, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Ingestion] Failed to reload job %s", id)
		finalized = s.finalize(ctx, id, entity.JobStatusFailed, fmt.Sprintf(internalErrorFormat, err))
		return
	}
	if !found {
		finalized = true
		return
	}
	if job.Status.Terminal() {
		// Someone else finalized while we slept; never overwrite.
		s.logger.InfoWithContextf(ctx, "[Ingestion] Job %s already %s, skipping finalization", id, job.Status)
		finalized = true
		return
	}

	status := entity.JobStatusCompleted
	output := failureOutput
	if s.outcome() {
		title := "document"
		if document, ok, derr := s.documents.GetByID(ctx, job.DocumentID); derr == nil && ok {
			title = document.Title
		}
		output = fmt.Sprintf(successOutputFormat, title)
	} else {
		status = entity.JobStatusFailed
	}

	finalized = s.finalize(ctx, id, status, output)
}

// finalize performs the single conditional terminal write. It reports
// whether a write reached the store or the job turned out to be already
// terminal; a conflict is not an error here, it means the cancel path won.
func (s *Service) finalize(ctx context.Context, id uuid.UUID, status entity.JobStatus, output string) bool {
	outcome, err := s.jobs.FinalizeWhereActive(ctx, id, status, output, time.Now())
	if err != nil {
		s.logger.ErrorWithContextf(ctx, err, "[Ingestion] Failed to finalize job %s", id)
		return false
	}

	switch outcome {
	case FinalizeConflict:
		s.logger.InfoWithContextf(ctx, "[Ingestion] Job %s was finalized concurrently, skipping", id)
		return true
	case FinalizeNotFound:
		s.logger.WarningWithContextf(ctx, "[Ingestion] Job %s vanished before finalization", id)
		return true
	}

	job := &entity.IngestionJob{ID: id, Status: status, Output: &output}
	if fresh, ok, gerr := s.jobs.GetByID(ctx, id); gerr == nil && ok {
		job = fresh
	}

	s.recordFinal(ctx, job)

	event := produce.JobEventCompleted
	if status == entity.JobStatusFailed {
		event = produce.JobEventFailed
	}
	s.publishEvent(ctx, event, job)

	s.logger.InfoWithContextf(ctx, "[Ingestion] Job %s finalized as %s", id, status)
	return true
}
