package cancel_appointment

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubService struct {
	got *models.CancelRequest
	err error
}

func (s *stubService) CancelAppointment(_ context.Context, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentResponse{ID: req.AppointmentID, Status: string(domain.StatusCancelled)}, nil
}

func serve(svc *stubService, id string, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/cancel", NewHandler(svc, logger.NewNop()).Handle)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPatch, "/appointments/"+id+"/cancel", nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, "/appointments/"+id+"/cancel", bytes.NewBufferString(body))
	}
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_WithoutBody(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "15", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(15), svc.got.AppointmentID)
	assert.Equal(t, int64(7), svc.got.ActorID)
	assert.Nil(t, svc.got.Reason)
}

func TestHandle_WithReason(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "15", `{"reason":"заболел"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.Reason)
	assert.Equal(t, "заболел", *svc.got.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{"invalid id", "abc", nil, http.StatusBadRequest},
		{"not found", "15", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"foreign appointment", "15", appointments.ErrAccessDenied, http.StatusForbidden},
		{"already finished", "15", domain.NewTransitionError("appointment", "finished", "cancelled"), http.StatusConflict},
		{"internal", "15", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.id, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
