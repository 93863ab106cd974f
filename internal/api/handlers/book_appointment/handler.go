package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты приема, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgValidation         = "некорректные данные записи"
	msgInvalidSlotTime    = "выбранное время недопустимо для записи"
	msgScheduleNotFound   = "у специалиста нет расписания на выбранную дату"
	msgSlotUnavailable    = "выбранный слот недоступен"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: professional_id=%d, date=%s, time=%s",
				req.ProfessionalID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, bookAppointment.ErrScheduleNotFound):
			h.logger.Warn("POST /appointments - Schedule not found: professional_id=%d, date=%s", req.ProfessionalID, req.Date)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, bookAppointment.ErrInvalidTime):
			h.logger.Warn("POST /appointments - Invalid time: professional_id=%d, date=%s, time=%s",
				req.ProfessionalID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidSlotTime)

		case errors.Is(err, bookAppointment.ErrValidation):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgValidation)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: user_id=%d, professional_id=%d, error=%v",
				userID, req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment booked successfully: appointment_id=%d, user_id=%d, professional_id=%d",
		result.ID, userID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
