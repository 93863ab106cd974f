package get_month_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	userClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	minYear = 2000
	maxYear = 2100
)

// UseCase use case для получения доступности на месяц по специалисту или специальности
type UseCase struct {
	templates       TemplateReader
	blockRepo       BlockRepository
	appointmentRepo AppointmentRepository
	directory       ProfessionalDirectory
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templates TemplateReader,
	blockRepo BlockRepository,
	appointmentRepo AppointmentRepository,
	directory ProfessionalDirectory,
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
		directory:       directory,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// Execute выполняет use case. Блокировки и приемы всех специалистов за месяц читаются одним запросом каждые
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthAvailability: professional=%d, specialty=%d, month=%04d-%02d",
		req.ProfessionalID, req.SpecialtyID, req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.opts.Location)
	days := domain.DaysInMonth(req.Year, time.Month(req.Month), uc.opts.Location)
	first, last := days[0], days[len(days)-1]

	resp := &Response{
		ProfessionalID: req.ProfessionalID,
		SpecialtyID:    req.SpecialtyID,
		Year:           req.Year,
		Month:          req.Month,
		Days:           make([]DayAvailability, 0, len(days)),
	}

	// 2. Список специалистов
	professionalIDs, err := uc.professionals(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Активные шаблоны; специалисты без шаблона не дают слотов
	templates := make(map[int64]*domain.ScheduleTemplate, len(professionalIDs))
	withTemplate := make([]int64, 0, len(professionalIDs))
	for _, id := range professionalIDs {
		template, err := uc.templates.GetActiveByProfessional(ctx, id)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				continue
			}
			uc.logger.Error("GetMonthAvailability: failed to get schedule for professional=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}
		templates[id] = template
		withTemplate = append(withTemplate, id)
	}

	// 4. Блокировки и приемы за месяц
	var blocks []*domain.ScheduleBlock
	var appointments []*domain.Appointment
	if len(withTemplate) > 0 && !domain.IsDateInPast(last, now) {
		blocks, err = uc.blockRepo.ListOverlapping(ctx, withTemplate, first, last, uc.opts.Policy.Statuses())
		if err != nil {
			uc.logger.Error("GetMonthAvailability: failed to get blocks: %v", err)
			return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
		}

		appointments, err = uc.appointmentRepo.ListActiveByProfessionals(ctx, withTemplate, first, last)
		if err != nil {
			uc.logger.Error("GetMonthAvailability: failed to get appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}
	}

	blocksByProfessional := groupBlocks(blocks)
	appointmentsByProfessional := groupAppointments(appointments)

	// 5. Сводка по каждому дню
	for _, day := range days {
		resp.Days = append(resp.Days, uc.summarizeDay(day, now, withTemplate, templates, blocksByProfessional, appointmentsByProfessional))
	}

	uc.logger.Info("GetMonthAvailability: computed %d days for %d professionals", len(resp.Days), len(withTemplate))
	return resp, nil
}

func (uc *UseCase) professionals(ctx context.Context, req *Request) ([]int64, error) {
	if req.ProfessionalID > 0 {
		return []int64{req.ProfessionalID}, nil
	}

	ids, err := uc.directory.ListProfessionalsBySpecialty(ctx, req.SpecialtyID)
	if err != nil {
		if errors.Is(err, userClient.ErrSpecialtyNotFound) {
			uc.logger.Warn("GetMonthAvailability: specialty id=%d not found", req.SpecialtyID)
			return nil, ErrSpecialtyNotFound
		}
		uc.logger.Error("GetMonthAvailability: failed to list professionals of specialty=%d: %v", req.SpecialtyID, err)
		return nil, fmt.Errorf("%w: failed to list professionals: %v", ErrInternal, err)
	}

	return ids, nil
}

func (uc *UseCase) summarizeDay(
	day, now time.Time,
	professionalIDs []int64,
	templates map[int64]*domain.ScheduleTemplate,
	blocks map[int64][]*domain.ScheduleBlock,
	appointments map[int64][]*domain.Appointment,
) DayAvailability {
	summary := DayAvailability{Date: day, Times: []TimeAvailability{}}
	byTime := make(map[types.TimeString][]int64)

	for _, id := range professionalIDs {
		slots := domain.GenerateDaySlots(domain.SlotInput{
			ProfessionalID: id,
			Date:           day,
			Template:       templates[id],
			Blocks:         blocks[id],
			Appointments:   appointments[id],
			Policy:         uc.opts.Policy,
		})
		slots = domain.MarkPast(slots, day, now, uc.opts.MinBookingNoticeMinutes)

		free := 0
		for _, s := range slots {
			if !s.Available {
				continue
			}
			free++
			byTime[s.Start] = append(byTime[s.Start], id)
		}

		if free > 0 {
			summary.SlotCount += free
			summary.ProfessionalsAvailable++
		}
	}

	for t, ids := range byTime {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		summary.Times = append(summary.Times, TimeAvailability{Time: t, ProfessionalIDs: ids})
	}
	sort.Slice(summary.Times, func(i, j int) bool {
		return summary.Times[i].Time.IsBefore(summary.Times[j].Time)
	})

	summary.Available = summary.SlotCount > 0
	return summary
}

func validateRequest(req *Request) error {
	if (req.ProfessionalID > 0) == (req.SpecialtyID > 0) {
		return fmt.Errorf("%w: exactly one of professionalID and specialtyID must be positive", ErrInvalidInput)
	}
	if req.ProfessionalID < 0 || req.SpecialtyID < 0 {
		return fmt.Errorf("%w: ids must not be negative", ErrInvalidInput)
	}
	if req.Year < minYear || req.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minYear, maxYear)
	}
	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	return nil
}

func groupBlocks(blocks []*domain.ScheduleBlock) map[int64][]*domain.ScheduleBlock {
	grouped := make(map[int64][]*domain.ScheduleBlock)
	for _, b := range blocks {
		grouped[b.ProfessionalID] = append(grouped[b.ProfessionalID], b)
	}
	return grouped
}

func groupAppointments(appointments []*domain.Appointment) map[int64][]*domain.Appointment {
	grouped := make(map[int64][]*domain.Appointment)
	for _, a := range appointments {
		grouped[a.ProfessionalID] = append(grouped[a.ProfessionalID], a)
	}
	return grouped
}
