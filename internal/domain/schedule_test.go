package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func TestResolveDayConfig_InheritsGlobal(t *testing.T) {
	global := GlobalConfig{
		DailyStart:          "08:00",
		DailyEnd:            "17:00",
		BreakStart:          ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:            ptr.Ptr(types.TimeString("13:00")),
		SlotDurationMinutes: 30,
		GapMinutes:          10,
	}

	cfg := ResolveDayConfig(global, nil)

	assert.True(t, cfg.IsWorking)
	assert.Equal(t, types.TimeString("08:00"), cfg.Start)
	assert.Equal(t, types.TimeString("17:00"), cfg.End)
	assert.True(t, cfg.HasBreak())
	assert.Equal(t, 40, cfg.Step())
}

func TestResolveDayConfig_OverrideWins(t *testing.T) {
	global := GlobalConfig{
		DailyStart:          "08:00",
		DailyEnd:            "17:00",
		BreakStart:          ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:            ptr.Ptr(types.TimeString("13:00")),
		SlotDurationMinutes: 30,
	}
	override := &DayOverride{
		IsWorking:           true,
		EndTime:             ptr.Ptr(types.TimeString("12:00")),
		NoBreak:             true,
		SlotDurationMinutes: ptr.Ptr(60),
	}

	cfg := ResolveDayConfig(global, override)

	assert.Equal(t, types.TimeString("08:00"), cfg.Start)
	assert.Equal(t, types.TimeString("12:00"), cfg.End)
	assert.False(t, cfg.HasBreak())
	assert.Equal(t, 60, cfg.SlotDurationMinutes)
	assert.Equal(t, 0, cfg.GapMinutes)
}

func TestScheduleTemplate_Clone(t *testing.T) {
	tpl := &ScheduleTemplate{
		ID:           3,
		SupersededBy: ptr.Ptr(int64(4)),
		ValidTo:      ptr.Ptr(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
	tpl.DayOverrides[time.Sunday] = &DayOverride{IsWorking: false}

	clone := tpl.Clone()
	clone.DayOverrides[time.Sunday].IsWorking = true
	*clone.ValidTo = clone.ValidTo.AddDate(1, 0, 0)

	assert.False(t, tpl.DayOverrides[time.Sunday].IsWorking)
	assert.Equal(t, 2025, tpl.ValidTo.Year())
	assert.Nil(t, clone.SupersededBy)
}

func TestDaysInMonth(t *testing.T) {
	assert.Len(t, DaysInMonth(2024, time.February, time.UTC), 29)
	assert.Len(t, DaysInMonth(2025, time.March, time.UTC), 31)
}

func TestBlockPolicy_Statuses(t *testing.T) {
	assert.Equal(t, []BlockStatus{BlockApproved}, BlockPolicy{}.Statuses())
	assert.Equal(t, []BlockStatus{BlockApproved, BlockPending}, BlockPolicy{PendingBlocksReserve: true}.Statuses())
}
