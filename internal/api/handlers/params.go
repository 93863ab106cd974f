package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// PathID положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}

// QueryDate необязательная дата YYYY-MM-DD из query. Отсутствие параметра дает nil
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// QueryInt64 необязательное целое из query
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseOptionalDate разбирает необязательную дату из тела запроса
func ParseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, *raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
