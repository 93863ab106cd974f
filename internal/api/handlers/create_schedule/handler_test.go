package create_schedule

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubService struct {
	got *models.CreateScheduleRequest
	err error
}

func (s *stubService) CreateSchedule(_ context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.ScheduleResponse{ID: 10, ProfessionalID: req.ProfessionalID, Active: true}, nil
}

func serve(svc *stubService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/professionals/{professionalId}/schedule", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPost, "/professionals/5/schedule", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"global": {
		"dailyStart": "08:00",
		"dailyEnd": "18:00",
		"breakStart": "12:00",
		"breakEnd": "13:00",
		"slotDurationMinutes": 30,
		"gapMinutes": 10
	},
	"dayOverrides": [{"isWorking": false}, null, null, null, null, null, {"isWorking": false}],
	"validFrom": "2025-01-01"
}`

func TestHandle_Created(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(5), svc.got.ProfessionalID)
	assert.Equal(t, int64(1), svc.got.ActorID)
	assert.Equal(t, "08:00", svc.got.Global.DailyStart.String())
	require.NotNil(t, svc.got.Global.BreakStart)
	assert.Equal(t, "12:00", svc.got.Global.BreakStart.String())
	assert.Equal(t, 30, svc.got.Global.SlotDurationMinutes)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), svc.got.ValidFrom)
	assert.Nil(t, svc.got.ValidTo)

	require.NotNil(t, svc.got.DayOverrides[time.Sunday])
	assert.False(t, svc.got.DayOverrides[time.Sunday].IsWorking)
	assert.Nil(t, svc.got.DayOverrides[time.Monday])
}

func TestHandle_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"slot too short": `{"global":{"dailyStart":"08:00","dailyEnd":"18:00","slotDurationMinutes":1},"validFrom":"2025-01-01"}`,
		"missing start":  `{"global":{"dailyEnd":"18:00","slotDurationMinutes":30},"validFrom":"2025-01-01"}`,
		"bad time":       `{"global":{"dailyStart":"8am","dailyEnd":"18:00","slotDurationMinutes":30},"validFrom":"2025-01-01"}`,
		"bad validFrom":  `{"global":{"dailyStart":"08:00","dailyEnd":"18:00","slotDurationMinutes":30},"validFrom":"01/01/2025"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			svc := &stubService{}
			rec := serve(svc, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{schedules.ErrValidation, http.StatusBadRequest},
		{schedules.ErrAccessDenied, http.StatusForbidden},
		{schedules.ErrScheduleConflict, http.StatusConflict},
		{schedules.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := serve(&stubService{err: tt.err}, validBody)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}
