package get_day_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getDaySlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type stubUseCase struct {
	got *getDaySlots.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getDaySlots.Request) (*getDaySlots.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getDaySlots.Response{
		Date:           req.Date,
		ProfessionalID: req.ProfessionalID,
		Slots: []getDaySlots.Slot{
			{Time: types.MustTimeString("08:00"), EndTime: types.MustTimeString("08:30"), Available: false},
			{Time: types.MustTimeString("08:40"), EndTime: types.MustTimeString("09:10"), Available: true},
		},
	}, nil
}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/professionals/{professionalId}/slots", NewHandler(uc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/professionals/5/slots?date=2025-03-10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.got.ProfessionalID)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), uc.got.Date)

	var resp DaySlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{Time: "08:40", EndTime: "09:10", Available: true}, resp.Slots[1])
}

func TestHandle_BadRequests(t *testing.T) {
	targets := []string{
		"/professionals/0/slots?date=2025-03-10",
		"/professionals/x/slots?date=2025-03-10",
		"/professionals/5/slots",
		"/professionals/5/slots?date=10-03-2025",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(uc, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	rec := serve(&stubUseCase{err: getDaySlots.ErrInvalidInput}, "/professionals/5/slots?date=2025-03-10")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubUseCase{err: getDaySlots.ErrInternal}, "/professionals/5/slots?date=2025-03-10")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "get_day_slots")
}
