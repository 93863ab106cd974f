package appointments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	patientID      = int64(100)
	professionalID = int64(10)
	strangerID     = int64(200)
	adminID        = int64(1)
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.Appointment
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	c := *a
	return &c, nil
}

func (r *memoryRepo) List(_ context.Context, f domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.ProfessionalID != nil && a.ProfessionalID != *f.ProfessionalID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[a.ID]
	if !ok || stored.Status != from {
		return appointmentRepo.ErrStatusConflict
	}
	c := *a
	r.items[a.ID] = &c
	return nil
}

type staticActors map[int64]domain.Role

func (a staticActors) GetActor(_ context.Context, id int64) (domain.Actor, error) {
	return domain.Actor{ID: id, Role: a[id]}, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	cancelled []int64
	actions   []string
}

func (n *recordingNotifier) NotifyCancelled(_ context.Context, a *domain.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, a.ID)
}

func (n *recordingNotifier) RecordAction(_ context.Context, action events.AuditAction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, action.Action)
}

type transitionCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *transitionCounter) ObserveTransition(to string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[to]++
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	svc      *Service
	repo     *memoryRepo
	notifier *recordingNotifier
	metrics  *transitionCounter
}

func newFixture(opts Options, now time.Time) *fixture {
	repo := &memoryRepo{items: map[int64]*domain.Appointment{
		1: {
			ID:             1,
			PatientID:      patientID,
			ProfessionalID: professionalID,
			SpecialtyID:    3,
			Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			StartTime:      types.MustTimeString("08:40"),
			Type:           domain.TypeFirstVisit,
			Status:         domain.StatusScheduled,
		},
	}}
	notifier := &recordingNotifier{}
	metrics := &transitionCounter{counts: map[string]int{}}
	actors := staticActors{
		patientID:      domain.RolePatient,
		professionalID: domain.RoleProfessional,
		strangerID:     domain.RolePatient,
		adminID:        domain.RoleAdmin,
	}

	svc := NewService(repo, actors, notifier, metrics, inlineTx{}, opts, logger.NewNop())
	svc.timeProvider = fixedTime{now: now}

	return &fixture{svc: svc, repo: repo, notifier: notifier, metrics: metrics}
}

var morning = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestLifecycle_StartAndFinish(t *testing.T) {
	f := newFixture(Options{AllowEarlyStart: true}, morning)
	ctx := context.Background()

	started, err := f.svc.StartAppointment(ctx, 1, professionalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), started.Status)
	assert.NotNil(t, started.StartedAt)

	finished, err := f.svc.FinishAppointment(ctx, 1, adminID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFinished), finished.Status)
	assert.NotNil(t, finished.FinishedAt)

	assert.Equal(t, 1, f.metrics.counts[string(domain.StatusInProgress)])
	assert.Equal(t, 1, f.metrics.counts[string(domain.StatusFinished)])
	assert.Equal(t, []string{events.ActionAppointmentStarted, events.ActionAppointmentFinished}, f.notifier.actions)
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("finish scheduled", func(t *testing.T) {
		f := newFixture(Options{AllowEarlyStart: true}, morning)
		_, err := f.svc.FinishAppointment(ctx, 1, professionalID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.StatusScheduled, f.repo.items[1].Status)
	})

	t.Run("start cancelled", func(t *testing.T) {
		f := newFixture(Options{AllowEarlyStart: true}, morning)
		_, err := f.svc.CancelAppointment(ctx, &models.CancelRequest{AppointmentID: 1, ActorID: patientID})
		require.NoError(t, err)

		_, err = f.svc.StartAppointment(ctx, 1, professionalID)
		var transitionErr *domain.TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, string(domain.StatusCancelled), transitionErr.From)
		assert.Equal(t, string(domain.StatusInProgress), transitionErr.To)
	})

	t.Run("cancel in progress", func(t *testing.T) {
		f := newFixture(Options{AllowEarlyStart: true}, morning)
		_, err := f.svc.StartAppointment(ctx, 1, professionalID)
		require.NoError(t, err)

		_, err = f.svc.CancelAppointment(ctx, &models.CancelRequest{AppointmentID: 1, ActorID: professionalID})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, f.notifier.cancelled)
	})
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(Options{AllowEarlyStart: true}, morning)
	ctx := context.Background()

	_, err := f.svc.CancelAppointment(ctx, &models.CancelRequest{AppointmentID: 1, ActorID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	cancelled, err := f.svc.CancelAppointment(ctx, &models.CancelRequest{
		AppointmentID: 1,
		ActorID:       patientID,
		Reason:        ptr.Ptr("  заболел  "),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, patientID, *cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "заболел", *cancelled.CancellationReason)
	assert.Equal(t, []int64{1}, f.notifier.cancelled)

	_, err = f.svc.CancelAppointment(ctx, &models.CancelRequest{AppointmentID: 42, ActorID: adminID})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelAppointment_ConcurrentOneWins(t *testing.T) {
	f := newFixture(Options{AllowEarlyStart: true}, morning)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CancelAppointment(ctx, &models.CancelRequest{AppointmentID: 1, ActorID: adminID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, success)
	assert.Len(t, f.notifier.cancelled, 1)
}

func TestStartAppointment_Guards(t *testing.T) {
	ctx := context.Background()

	f := newFixture(Options{AllowEarlyStart: true}, morning)
	_, err := f.svc.StartAppointment(ctx, 1, patientID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	strict := newFixture(Options{AllowEarlyStart: false}, morning)
	_, err = strict.svc.StartAppointment(ctx, 1, professionalID)
	assert.ErrorIs(t, err, ErrTooEarly)

	onTime := newFixture(Options{AllowEarlyStart: false}, time.Date(2025, 3, 10, 8, 40, 0, 0, time.UTC))
	_, err = onTime.svc.StartAppointment(ctx, 1, professionalID)
	assert.NoError(t, err)
}

func TestGetAppointment(t *testing.T) {
	f := newFixture(Options{}, morning)
	ctx := context.Background()

	resp, err := f.svc.GetAppointment(ctx, 1, patientID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "08:40", resp.StartTime)

	_, err = f.svc.GetAppointment(ctx, 1, adminID)
	assert.NoError(t, err)

	_, err = f.svc.GetAppointment(ctx, 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetAppointment(ctx, 2, adminID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListAppointments(t *testing.T) {
	f := newFixture(Options{}, morning)
	ctx := context.Background()

	own, err := f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: patientID})
	require.NoError(t, err)
	assert.Len(t, own.Appointments, 1)

	professional, err := f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: professionalID})
	require.NoError(t, err)
	assert.Len(t, professional.Appointments, 1)

	empty, err := f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: strangerID})
	require.NoError(t, err)
	assert.Empty(t, empty.Appointments)

	_, err = f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: strangerID, PatientID: ptr.Ptr(patientID)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: adminID, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrValidation)

	all, err := f.svc.ListAppointments(ctx, &models.ListRequest{ActorID: adminID})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 1)
}
