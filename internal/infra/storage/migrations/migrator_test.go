package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(embedMigrations, "sql/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sql/00001_schedule_templates.sql",
		"sql/00002_schedule_blocks.sql",
		"sql/00003_appointments.sql",
	}, files)

	data, err := fs.ReadFile(embedMigrations, "sql/00003_appointments.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "WHERE status <> 'cancelled'")
	assert.Contains(t, string(data), "-- +goose Down")
}
