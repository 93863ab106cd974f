package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("08:30"), ts)

	ts, err = NewTimeStringFromString("13:40:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("13:40"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("8h")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutes(t *testing.T) {
	next, err := TimeString("08:00").AddMinutes(40)
	require.NoError(t, err)
	assert.Equal(t, TimeString("08:40"), next)

	end, err := TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	_, err = TimeString("23:30").AddMinutes(31)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(1)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("08:01"))
	assert.False(t, TimeString("08:00").IsBefore("08:00"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
	assert.True(t, TimeString("09:00").Equal("09:00"))
	assert.Equal(t, 13*60+40, TimeString("13:40").Minutes())
	assert.Equal(t, -1, TimeString("").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 10, 20, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("10:20"), ts)

	require.NoError(t, ts.Scan([]byte("11:00:00")))
	assert.Equal(t, TimeString("11:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 13, 40, 0, 0, time.UTC), TimeString("13:40").OnDate(date))
}
