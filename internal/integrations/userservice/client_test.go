package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/internal/users/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"role":"admin"}`))
	})
	mux.HandleFunc("/internal/users/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":2,"role":"janitor"}`))
	})
	mux.HandleFunc("/internal/users/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/internal/specialties/5/professionals", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"specialty_id":5,"professional_ids":[10,11]}`))
	})
	mux.HandleFunc("/internal/specialties/6/professionals", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"specialty_id":6}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetRole(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.NewNop())
	ctx := context.Background()

	role, err := c.GetRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	actor, err := c.GetActor(ctx, 1)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())

	_, err = c.GetRole(ctx, 2)
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = c.GetRole(ctx, 3)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = c.GetRole(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClient_ListProfessionalsBySpecialty(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.NewNop())
	ctx := context.Background()

	ids, err := c.ListProfessionalsBySpecialty(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)

	ids, err = c.ListProfessionalsBySpecialty(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = c.ListProfessionalsBySpecialty(ctx, 7)
	assert.ErrorIs(t, err, ErrSpecialtyNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond, logger.NewNop())
	_, err := c.GetRole(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
