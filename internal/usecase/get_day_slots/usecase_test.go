package get_day_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const professionalID = int64(7)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type templates map[int64]*domain.ScheduleTemplate

func (t templates) GetActiveByProfessional(_ context.Context, id int64) (*domain.ScheduleTemplate, error) {
	tpl, ok := t[id]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return tpl, nil
}

type blocks struct {
	items    []*domain.ScheduleBlock
	statuses []domain.BlockStatus
}

func (b *blocks) ListOverlapping(_ context.Context, _ []int64, _, _ time.Time, statuses []domain.BlockStatus) ([]*domain.ScheduleBlock, error) {
	b.statuses = statuses
	return b.items, nil
}

type appointments []*domain.Appointment

func (a appointments) ListActiveByProfessional(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Appointment, error) {
	return a, nil
}

type failingAppointments struct{}

func (failingAppointments) ListActiveByProfessional(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Appointment, error) {
	return nil, errors.New("connection reset")
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func scenarioTemplate() *domain.ScheduleTemplate {
	return &domain.ScheduleTemplate{
		ID:             1,
		ProfessionalID: professionalID,
		Global: domain.GlobalConfig{
			DailyStart:          "08:00",
			DailyEnd:            "17:00",
			BreakStart:          ptr.Ptr(types.TimeString("12:00")),
			BreakEnd:            ptr.Ptr(types.TimeString("13:00")),
			SlotDurationMinutes: 30,
			GapMinutes:          10,
		},
		ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
}

func newUseCase(b BlockRepository, a AppointmentRepository, now time.Time, opts Options) *UseCase {
	uc := NewUseCase(templates{professionalID: scenarioTemplate()}, b, a, opts, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func starts(slots []Slot, onlyAvailable bool) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		if onlyAvailable && !s.Available {
			continue
		}
		result = append(result, s.Time.String())
	}
	return result
}

func TestGetDaySlots_Scenario(t *testing.T) {
	uc := newUseCase(&blocks{}, appointments{}, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), Options{})

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"08:00", "08:40", "09:20", "10:00", "10:40", "11:20",
		"13:00", "13:40", "14:20", "15:00", "15:40", "16:20",
	}, starts(resp.Slots, true))
	assert.Equal(t, "08:30", resp.Slots[0].EndTime.String())
}

func TestGetDaySlots_OccupiedAndBlocked(t *testing.T) {
	b := &blocks{items: []*domain.ScheduleBlock{{
		ProfessionalID: professionalID,
		Kind:           domain.BlockSingleDay,
		Date:           &monday,
		StartTime:      ptr.Ptr(types.TimeString("14:00")),
		EndTime:        ptr.Ptr(types.TimeString("15:30")),
		Status:         domain.BlockApproved,
	}}}
	a := appointments{{
		ProfessionalID: professionalID,
		Date:           monday,
		StartTime:      "08:40",
		Status:         domain.StatusScheduled,
	}}
	uc := newUseCase(b, a, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), Options{})

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)

	all := starts(resp.Slots, false)
	assert.Contains(t, all, "08:40")
	assert.NotContains(t, starts(resp.Slots, true), "08:40")
	assert.NotContains(t, all, "13:40")
	assert.NotContains(t, all, "14:20")
	assert.NotContains(t, all, "15:00")
	assert.Contains(t, all, "15:40")
	assert.Equal(t, []domain.BlockStatus{domain.BlockApproved}, b.statuses)
}

func TestGetDaySlots_PendingBlocksReserve(t *testing.T) {
	b := &blocks{}
	uc := newUseCase(b, appointments{}, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Options{Policy: domain.BlockPolicy{PendingBlocksReserve: true}})

	_, err := uc.Execute(context.Background(), &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []domain.BlockStatus{domain.BlockApproved, domain.BlockPending}, b.statuses)
}

func TestGetDaySlots_Today(t *testing.T) {
	uc := newUseCase(&blocks{}, appointments{}, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Options{MinBookingNoticeMinutes: 30})

	resp, err := uc.Execute(context.Background(), &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)

	free := starts(resp.Slots, true)
	assert.Equal(t, "10:00", free[0])
	assert.Len(t, resp.Slots, 12)
}

func TestGetDaySlots_EmptyCases(t *testing.T) {
	ctx := context.Background()
	future := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	past := newUseCase(&blocks{}, appointments{}, time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC), Options{})
	resp, err := past.Execute(ctx, &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	uc := newUseCase(&blocks{}, appointments{}, future, Options{})
	resp, err = uc.Execute(ctx, &Request{ProfessionalID: 99, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	resp, err = uc.Execute(ctx, &Request{ProfessionalID: professionalID, Date: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	fullDay := &blocks{items: []*domain.ScheduleBlock{{
		ProfessionalID: professionalID,
		Kind:           domain.BlockSingleDay,
		Date:           &monday,
		Status:         domain.BlockApproved,
	}}}
	blocked := newUseCase(fullDay, appointments{}, future, Options{})
	resp, err = blocked.Execute(ctx, &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestGetDaySlots_Idempotent(t *testing.T) {
	uc := newUseCase(&blocks{}, appointments{}, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), Options{})
	ctx := context.Background()

	first, err := uc.Execute(ctx, &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, &Request{ProfessionalID: professionalID, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetDaySlots_Errors(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(&blocks{}, failingAppointments{}, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), Options{})

	_, err := uc.Execute(ctx, &Request{ProfessionalID: 0, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{ProfessionalID: professionalID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{ProfessionalID: professionalID, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}
