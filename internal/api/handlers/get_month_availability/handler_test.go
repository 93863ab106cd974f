package get_month_availability

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

	getMonthAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_month_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubUseCase struct {
	got *getMonthAvailability.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getMonthAvailability.Request) (*getMonthAvailability.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getMonthAvailability.Response{
		ProfessionalID: req.ProfessionalID,
		SpecialtyID:    req.SpecialtyID,
		Year:           req.Year,
		Month:          req.Month,
		Days: []getMonthAvailability.DayAvailability{
			{
				Date:                   time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC),
				Available:              true,
				SlotCount:              2,
				ProfessionalsAvailable: 2,
				Times: []getMonthAvailability.TimeAvailability{
					{Time: "08:00", ProfessionalIDs: []int64{3, 5}},
				},
			},
		},
	}, nil
}

func serve(uc *stubUseCase, target string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/professionals/{professionalId}/availability", h.Handle)
	router.HandleFunc("/specialties/{specialtyId}/availability", h.Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ByProfessional(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/professionals/5/availability?year=2025&month=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.got.ProfessionalID)
	assert.Zero(t, uc.got.SpecialtyID)
	assert.Equal(t, 2025, uc.got.Year)
	assert.Equal(t, 3, uc.got.Month)

	var resp MonthAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.ProfessionalID)
	assert.Nil(t, resp.SpecialtyID)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2025-03-01", resp.Days[0].Date)
}

func TestHandle_BySpecialty(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/specialties/2/availability?year=2025&month=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), uc.got.SpecialtyID)
	assert.Zero(t, uc.got.ProfessionalID)

	var resp MonthAvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days[0].Times, 1)
	assert.Equal(t, []int64{3, 5}, resp.Days[0].Times[0].ProfessionalIDs)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad year", "/professionals/5/availability?year=abc&month=3", nil, http.StatusBadRequest},
		{"month out of range", "/professionals/5/availability?year=2025&month=13", nil, http.StatusBadRequest},
		{"bad specialty", "/specialties/0/availability?year=2025&month=3", nil, http.StatusBadRequest},
		{"unknown specialty", "/specialties/9/availability?year=2025&month=3", getMonthAvailability.ErrSpecialtyNotFound, http.StatusNotFound},
		{"invalid input", "/professionals/5/availability?year=1900&month=3", getMonthAvailability.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "/professionals/5/availability?year=2025&month=3", getMonthAvailability.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
