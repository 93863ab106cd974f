package get_day_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case для получения слотов специалиста на день
type UseCase struct {
	templates       TemplateReader
	blockRepo       BlockRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templates TemplateReader,
	blockRepo BlockRepository,
	appointmentRepo AppointmentRepository,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &UseCase{
		templates:       templates,
		blockRepo:       blockRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Отсутствие шаблона, нерабочий день и прошедшая дата дают пустой список, а не ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDaySlots: professional=%d, date=%s", req.ProfessionalID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Текущее время в часовом поясе расписания
	now := uc.timeProvider.Now().In(uc.opts.Location)
	date := localDate(req.Date, uc.opts.Location)

	resp := &Response{
		Date:           date,
		ProfessionalID: req.ProfessionalID,
		Slots:          []Slot{},
	}

	if domain.IsDateInPast(date, now) {
		uc.logger.Info("GetDaySlots: date %s is in the past", date.Format(domain.DateFormat))
		return resp, nil
	}

	// 3. Активный шаблон
	template, err := uc.templates.GetActiveByProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetDaySlots: professional=%d has no active schedule", req.ProfessionalID)
			return resp, nil
		}
		uc.logger.Error("GetDaySlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !template.Covers(date) {
		uc.logger.Info("GetDaySlots: schedule id=%d does not cover %s", template.ID, date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Блокировки и приемы на дату
	blocks, err := uc.blockRepo.ListOverlapping(ctx, []int64{req.ProfessionalID}, date, date, uc.opts.Policy.Statuses())
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.ListActiveByProfessional(ctx, req.ProfessionalID, date, date)
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Генерация слотов
	slots := domain.GenerateDaySlots(domain.SlotInput{
		ProfessionalID: req.ProfessionalID,
		Date:           date,
		Template:       template,
		Blocks:         blocks,
		Appointments:   appointments,
		Policy:         uc.opts.Policy,
	})
	slots = domain.MarkPast(slots, date, now, uc.opts.MinBookingNoticeMinutes)

	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{Time: s.Start, EndTime: s.End, Available: s.Available})
	}

	uc.logger.Info("GetDaySlots: generated %d slots for professional=%d, date=%s",
		len(resp.Slots), req.ProfessionalID, date.Format(domain.DateFormat))
	return resp, nil
}

// localDate дата запроса как полночь в часовом поясе расписания
func localDate(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
