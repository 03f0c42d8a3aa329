package ingestion

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
)

// In-memory doubles for the store contracts. Guarded by a mutex so the
// background driver and the test goroutine can hit them concurrently.

type memJobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.IngestionJob
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[uuid.UUID]*entity.IngestionJob{}}
}

func (s *memJobStore) Insert(_ context.Context, job *entity.IngestionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *memJobStore) GetByID(_ context.Context, id uuid.UUID) (*entity.IngestionJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false, nil
	}
	copied := *job
	return &copied, true, nil
}

func (s *memJobStore) ListAll(_ context.Context) ([]entity.IngestionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(*entity.IngestionJob) bool { return true }), nil
}

func (s *memJobStore) ListByStarter(_ context.Context, userID uuid.UUID) ([]entity.IngestionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(j *entity.IngestionJob) bool { return j.StartedByID == userID }), nil
}

func (s *memJobStore) ListByDocument(_ context.Context, documentID uuid.UUID) ([]entity.IngestionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(j *entity.IngestionJob) bool { return j.DocumentID == documentID }), nil
}

func (s *memJobStore) Update(_ context.Context, id uuid.UUID, patch JobPatch) (*entity.IngestionJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false, nil
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Output != nil {
		output := *patch.Output
		job.Output = &output
	}
	copied := *job
	return &copied, true, nil
}

func (s *memJobStore) MarkProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != entity.JobStatusPending {
		return false, nil
	}
	job.Status = entity.JobStatusProcessing
	return true, nil
}

func (s *memJobStore) FinalizeWhereActive(_ context.Context, id uuid.UUID, status entity.JobStatus, output string, completedAt time.Time) (FinalizeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return FinalizeNotFound, nil
	}
	if job.Status.Terminal() {
		return FinalizeConflict, nil
	}
	job.Status = status
	job.Output = &output
	job.CompletedAt = &completedAt
	return FinalizeApplied, nil
}

func (s *memJobStore) collect(keep func(*entity.IngestionJob) bool) []entity.IngestionJob {
	var jobs []entity.IngestionJob
	for _, job := range s.jobs {
		if keep(job) {
			jobs = append(jobs, *job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
	return jobs
}

type memDocumentStore struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*entity.Document
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{documents: map[uuid.UUID]*entity.Document{}}
}

func (s *memDocumentStore) add(document *entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[document.ID] = document
}

func (s *memDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*entity.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	document, ok := s.documents[id]
	if !ok {
		return nil, false, nil
	}
	copied := *document
	return &copied, true, nil
}

type memIdentityStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemIdentityStore() *memIdentityStore {
	return &memIdentityStore{users: map[uuid.UUID]*entity.User{}}
}

func (s *memIdentityStore) add(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *memIdentityStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	copied := *user
	return &copied, true, nil
}
