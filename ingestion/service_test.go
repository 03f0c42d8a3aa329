package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-document-service/authz"
	"github.com/tnqbao/gau-document-service/entity"
)

type fixture struct {
	svc   *Service
	jobs  *memJobStore
	docs  *memDocumentStore
	users *memIdentityStore

	owner    *entity.User
	admin    *entity.User
	stranger *entity.User
	document *entity.Document
}

func newFixture(t *testing.T, delay time.Duration, success bool) *fixture {
	t.Helper()

	jobs := newMemJobStore()
	docs := newMemDocumentStore()
	users := newMemIdentityStore()

	owner := &entity.User{ID: uuid.New(), Email: "owner@example.com", Role: entity.RoleEditor, IsActive: true}
	admin := &entity.User{ID: uuid.New(), Email: "admin@example.com", Role: entity.RoleAdmin, IsActive: true}
	stranger := &entity.User{ID: uuid.New(), Email: "stranger@example.com", Role: entity.RoleViewer, IsActive: true}
	users.add(owner)
	users.add(admin)
	users.add(stranger)

	document := &entity.Document{ID: uuid.New(), Title: "Q3 Report", CreatedByID: owner.ID}
	docs.add(document)

	svc := NewService(Config{ProcessingDelay: delay}, jobs, docs, users, nil, nil)
	svc.outcome = func() bool { return success }

	return &fixture{
		svc:      svc,
		jobs:     jobs,
		docs:     docs,
		users:    users,
		owner:    owner,
		admin:    admin,
		stranger: stranger,
		document: document,
	}
}

func actorFor(u *entity.User) authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) seedJob(starter uuid.UUID, status entity.JobStatus, startedAt time.Time) *entity.IngestionJob {
	job := &entity.IngestionJob{
		ID:          uuid.New(),
		DocumentID:  f.document.ID,
		StartedByID: starter,
		Status:      status,
		StartedAt:   startedAt,
	}
	if status.Terminal() {
		now := time.Now()
		output := "done"
		job.CompletedAt = &now
		job.Output = &output
	}
	_ = f.jobs.Insert(context.Background(), job)
	return job
}

func TestCreateUnknownDocument(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)

	_, err := f.svc.Create(context.Background(), uuid.New(), f.owner.ID)
	require.ErrorIs(t, err, ErrNotFound)

	all, err := f.jobs.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all, "no job may be persisted when the document is missing")
}

func TestCreateUnknownActor(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)

	_, err := f.svc.Create(context.Background(), f.document.ID, uuid.New())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateInactiveActor(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	f.owner.IsActive = false
	f.users.add(f.owner)

	_, err := f.svc.Create(context.Background(), f.document.ID, f.owner.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateRequiresDocumentAccess(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)

	_, err := f.svc.Create(context.Background(), f.document.ID, f.stranger.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateAdminOnForeignDocument(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)

	job, err := f.svc.Create(context.Background(), f.document.ID, f.admin.ID)
	require.NoError(t, err)
	require.Equal(t, f.admin.ID, job.StartedByID)
	f.svc.Wait()
}

func TestCreateRunsJobToCompletion(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond, true)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, f.document.ID, f.owner.ID)
	require.NoError(t, err)
	require.Equal(t, entity.JobStatusPending, job.Status)
	require.Nil(t, job.CompletedAt)
	require.Nil(t, job.Output)

	f.svc.Wait()

	final, found, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entity.JobStatusCompleted, final.Status)
	require.NotNil(t, final.CompletedAt)
	require.NotNil(t, final.Output)
	require.Contains(t, *final.Output, "Q3 Report")
}

func TestCreateRunsJobToFailure(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond, false)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, f.document.ID, f.owner.ID)
	require.NoError(t, err)

	f.svc.Wait()

	final, found, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entity.JobStatusFailed, final.Status)
	require.NotNil(t, final.CompletedAt)
	require.NotNil(t, final.Output)
	require.Contains(t, *final.Output, "Failed to process document")
}

// completedAt must be set exactly when the job is terminal.
func TestCompletedAtMatchesTerminalState(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond, true)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, f.document.ID, f.owner.ID)
	require.NoError(t, err)

	current, _, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, current.Status.Terminal(), current.CompletedAt != nil)

	f.svc.Wait()

	final, _, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, final.Status.Terminal())
	require.NotNil(t, final.CompletedAt)
}

func TestCancelPendingJobWinsOverDriver(t *testing.T) {
	f := newFixture(t, 250*time.Millisecond, true)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, f.document.ID, f.owner.ID)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, job.ID, actorFor(f.owner))
	require.NoError(t, err)
	require.Equal(t, entity.JobStatusFailed, cancelled.Status)
	require.NotNil(t, cancelled.Output)
	require.Equal(t, "Job was cancelled by user", *cancelled.Output)
	require.NotNil(t, cancelled.CompletedAt)

	// The driver's deferred finalization must not clobber the cancel.
	f.svc.Wait()

	final, found, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entity.JobStatusFailed, final.Status)
	require.Equal(t, "Job was cancelled by user", *final.Output)
	require.Equal(t, cancelled.CompletedAt.UnixNano(), final.CompletedAt.UnixNano())
}

func TestCancelTerminalJob(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	job := f.seedJob(f.owner.ID, entity.JobStatusCompleted, time.Now())

	_, err := f.svc.Cancel(context.Background(), job.ID, actorFor(f.owner))
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelMissingJob(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)

	_, err := f.svc.Cancel(context.Background(), uuid.New(), actorFor(f.owner))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	job := f.seedJob(f.owner.ID, entity.JobStatusPending, time.Now())

	_, err := f.svc.Cancel(context.Background(), job.ID, actorFor(f.stranger))
	require.ErrorIs(t, err, ErrUnauthorized)

	cancelled, err := f.svc.Cancel(context.Background(), job.ID, actorFor(f.admin))
	require.NoError(t, err)
	require.Equal(t, entity.JobStatusFailed, cancelled.Status)
}

func TestGetChecksExistenceBeforeOwnership(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, uuid.New(), actorFor(f.stranger))
	require.ErrorIs(t, err, ErrNotFound)

	job := f.seedJob(f.owner.ID, entity.JobStatusPending, time.Now())

	_, err = f.svc.Get(ctx, job.ID, actorFor(f.stranger))
	require.ErrorIs(t, err, ErrUnauthorized)

	got, err := f.svc.Get(ctx, job.ID, actorFor(f.owner))
	require.NoError(t, err)
	require.Equal(t, job.ID, got.ID)

	got, err = f.svc.Get(ctx, job.ID, actorFor(f.admin))
	require.NoError(t, err)
	require.Equal(t, job.ID, got.ID)
}

func TestListFiltersByStarterAndOrders(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	ctx := context.Background()

	base := time.Now()
	oldest := f.seedJob(f.owner.ID, entity.JobStatusCompleted, base.Add(-3*time.Hour))
	foreign := f.seedJob(f.stranger.ID, entity.JobStatusPending, base.Add(-2*time.Hour))
	newest := f.seedJob(f.owner.ID, entity.JobStatusPending, base.Add(-1*time.Hour))

	own, err := f.svc.List(ctx, actorFor(f.owner))
	require.NoError(t, err)
	require.Len(t, own, 2)
	require.Equal(t, newest.ID, own[0].ID)
	require.Equal(t, oldest.ID, own[1].ID)

	all, err := f.svc.List(ctx, actorFor(f.admin))
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, newest.ID, all[0].ID)
	require.Equal(t, foreign.ID, all[1].ID)
	require.Equal(t, oldest.ID, all[2].ID)
}

// A document owner sees every job on their document, including jobs other
// users started. Per-job access stays restricted to the starter.
func TestListByDocumentUsesDocumentOwnership(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	ctx := context.Background()

	foreign := f.seedJob(f.admin.ID, entity.JobStatusPending, time.Now())

	jobs, err := f.svc.ListByDocument(ctx, f.document.ID, actorFor(f.owner))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, foreign.ID, jobs[0].ID)

	_, err = f.svc.Get(ctx, foreign.ID, actorFor(f.owner))
	require.ErrorIs(t, err, ErrUnauthorized, "per-job access does not widen with document ownership")

	_, err = f.svc.ListByDocument(ctx, f.document.ID, actorFor(f.stranger))
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.ListByDocument(ctx, uuid.New(), actorFor(f.admin))
	require.ErrorIs(t, err, ErrNotFound)
}

// A panic inside the background run must end in exactly one FAILED write,
// never in a stuck PROCESSING job.
func TestDriverRecoversFromPanic(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	f.svc.outcome = func() bool { panic("corrupt parser state") }
	ctx := context.Background()

	job, err := f.svc.Create(ctx, f.document.ID, f.owner.ID)
	require.NoError(t, err)

	f.svc.Wait()

	final, found, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, entity.JobStatusFailed, final.Status)
	require.NotNil(t, final.CompletedAt)
	require.NotNil(t, final.Output)
	require.Contains(t, *final.Output, "Error processing job:")
	require.Contains(t, *final.Output, "corrupt parser state")
}

func TestUpdateIsAdminOnly(t *testing.T) {
	f := newFixture(t, time.Millisecond, true)
	ctx := context.Background()

	job := f.seedJob(f.owner.ID, entity.JobStatusPending, time.Now())

	status := entity.JobStatusCompleted
	_, err := f.svc.Update(ctx, job.ID, JobPatch{Status: &status}, actorFor(f.owner))
	require.ErrorIs(t, err, ErrUnauthorized, "even the job starter may not update")

	output := "manually resolved"
	updated, err := f.svc.Update(ctx, job.ID, JobPatch{Status: &status, Output: &output}, actorFor(f.admin))
	require.NoError(t, err)
	require.Equal(t, entity.JobStatusCompleted, updated.Status)
	require.Equal(t, "manually resolved", *updated.Output)

	_, err = f.svc.Update(ctx, uuid.New(), JobPatch{Status: &status}, actorFor(f.admin))
	require.ErrorIs(t, err, ErrNotFound)
}
