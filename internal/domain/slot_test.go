package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2025-03-10, понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTemplate(global GlobalConfig) *ScheduleTemplate {
	return &ScheduleTemplate{
		ID:             1,
		ProfessionalID: 7,
		Global:         global,
		ValidFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:         true,
	}
}

func starts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

func TestGenerateSlots_FourSlotsWithoutGap(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "10:00", SlotDurationMinutes: 30})

	slots := GenerateSlots(SlotInput{ProfessionalID: 7, Date: monday, Template: tpl})

	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, starts(slots))
	assert.Equal(t, types.TimeString("10:00"), slots[3].End)
}

func TestGenerateSlots_FullDayScenario(t *testing.T) {
	tpl := newTemplate(GlobalConfig{
		DailyStart:          "08:00",
		DailyEnd:            "17:00",
		BreakStart:          ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:            ptr.Ptr(types.TimeString("13:00")),
		SlotDurationMinutes: 30,
		GapMinutes:          10,
	})

	slots := GenerateDaySlots(SlotInput{ProfessionalID: 7, Date: monday, Template: tpl})

	assert.Equal(t, []string{
		"08:00", "08:40", "09:20", "10:00", "10:40", "11:20",
		"13:00", "13:40", "14:20", "15:00", "15:40", "16:20",
	}, starts(slots))
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.False(t, s.End.IsAfter("17:00"))
	}
}

func TestGenerateSlots_BreakRemovesIntersectingSlots(t *testing.T) {
	tpl := newTemplate(GlobalConfig{
		DailyStart:          "11:00",
		DailyEnd:            "14:00",
		BreakStart:          ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:            ptr.Ptr(types.TimeString("13:00")),
		SlotDurationMinutes: 45,
	})

	slots := GenerateSlots(SlotInput{ProfessionalID: 7, Date: monday, Template: tpl})

	// 11:45-12:30 пересекает перерыв
	assert.Equal(t, []string{"11:00", "13:00"}, starts(slots))
}

func TestGenerateSlots_InvertedBreakIgnored(t *testing.T) {
	tpl := newTemplate(GlobalConfig{
		DailyStart:          "08:00",
		DailyEnd:            "09:00",
		BreakStart:          ptr.Ptr(types.TimeString("08:30")),
		BreakEnd:            ptr.Ptr(types.TimeString("08:00")),
		SlotDurationMinutes: 30,
	})

	assert.Len(t, GenerateSlots(SlotInput{Date: monday, Template: tpl}), 2)
}

func TestGenerateSlots_NonWorkingOverride(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "12:00", SlotDurationMinutes: 30})
	tpl.DayOverrides[time.Monday] = &DayOverride{IsWorking: false}

	assert.Empty(t, GenerateSlots(SlotInput{ProfessionalID: 7, Date: monday, Template: tpl}))
	assert.Len(t, GenerateSlots(SlotInput{ProfessionalID: 7, Date: monday.AddDate(0, 0, 1), Template: tpl}), 8)
}

func TestGenerateSlots_TemplateCoverage(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "09:00", SlotDurationMinutes: 30})

	assert.Empty(t, GenerateSlots(SlotInput{Date: monday}))

	tpl.ValidFrom = monday.AddDate(0, 0, 1)
	assert.Empty(t, GenerateSlots(SlotInput{Date: monday, Template: tpl}))

	tpl.ValidFrom = monday.AddDate(0, -1, 0)
	tpl.ValidTo = ptr.Ptr(monday.AddDate(0, 0, -1))
	assert.Empty(t, GenerateSlots(SlotInput{Date: monday, Template: tpl}))

	tpl.ValidTo = ptr.Ptr(monday)
	assert.Len(t, GenerateSlots(SlotInput{Date: monday, Template: tpl}), 2)

	tpl.Active = false
	assert.Empty(t, GenerateSlots(SlotInput{Date: monday, Template: tpl}))
}

func TestGenerateSlots_Blocks(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "10:00", SlotDurationMinutes: 30})

	block := &ScheduleBlock{ProfessionalID: 7, Kind: BlockSingleDay, Date: ptr.Ptr(monday)}

	for _, tc := range []struct {
		status BlockStatus
		policy BlockPolicy
		want   int
	}{
		{BlockApproved, BlockPolicy{}, 0},
		{BlockPending, BlockPolicy{}, 4},
		{BlockRejected, BlockPolicy{}, 4},
		{BlockPending, BlockPolicy{PendingBlocksReserve: true}, 0},
		{BlockRejected, BlockPolicy{PendingBlocksReserve: true}, 4},
	} {
		block.Status = tc.status
		in := SlotInput{ProfessionalID: 7, Date: monday, Template: tpl, Blocks: []*ScheduleBlock{block}, Policy: tc.policy}
		assert.Len(t, GenerateSlots(in), tc.want, "status=%s policy=%+v", tc.status, tc.policy)
	}
}

func TestGenerateSlots_RangeAndPartialBlocks(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "10:00", SlotDurationMinutes: 30})

	rangeBlock := &ScheduleBlock{
		ProfessionalID: 7,
		Kind:           BlockRange,
		StartDate:      ptr.Ptr(monday.AddDate(0, 0, -2)),
		EndDate:        ptr.Ptr(monday),
		Status:         BlockApproved,
	}
	in := SlotInput{ProfessionalID: 7, Date: monday, Template: tpl, Blocks: []*ScheduleBlock{rangeBlock}}
	assert.Empty(t, GenerateSlots(in))

	in.Date = monday.AddDate(0, 0, 1)
	assert.Len(t, GenerateSlots(in), 4)

	partial := &ScheduleBlock{
		ProfessionalID: 7,
		Kind:           BlockSingleDay,
		Date:           ptr.Ptr(monday),
		StartTime:      ptr.Ptr(types.TimeString("08:15")),
		EndTime:        ptr.Ptr(types.TimeString("09:00")),
		Status:         BlockApproved,
	}
	in = SlotInput{ProfessionalID: 7, Date: monday, Template: tpl, Blocks: []*ScheduleBlock{partial}}
	assert.Equal(t, []string{"09:00", "09:30"}, starts(GenerateSlots(in)))
}

func TestGenerateSlots_Appointments(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "10:00", SlotDurationMinutes: 30})
	appointments := []*Appointment{
		{ProfessionalID: 7, Date: monday, StartTime: "08:30", Status: StatusScheduled},
		{ProfessionalID: 7, Date: monday, StartTime: "09:00", Status: StatusCancelled},
		{ProfessionalID: 8, Date: monday, StartTime: "09:30", Status: StatusScheduled},
	}
	in := SlotInput{ProfessionalID: 7, Date: monday, Template: tpl, Appointments: appointments}

	assert.Equal(t, []string{"08:00", "09:00", "09:30"}, starts(GenerateSlots(in)))

	day := GenerateDaySlots(in)
	require.Len(t, day, 4)
	assert.False(t, day[1].Available)
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "17:00", SlotDurationMinutes: 20, GapMinutes: 5})
	in := SlotInput{ProfessionalID: 7, Date: monday, Template: tpl}

	assert.Equal(t, GenerateDaySlots(in), GenerateDaySlots(in))
}

func TestMarkPast(t *testing.T) {
	tpl := newTemplate(GlobalConfig{DailyStart: "08:00", DailyEnd: "10:00", SlotDurationMinutes: 30})
	in := SlotInput{Date: monday, Template: tpl}
	now := time.Date(2025, 3, 10, 8, 40, 0, 0, time.UTC)

	today := MarkPast(GenerateDaySlots(in), monday, now, 15)
	assert.False(t, today[0].Available)
	assert.False(t, today[1].Available)
	assert.True(t, today[2].Available)

	assert.Empty(t, MarkPast(GenerateDaySlots(in), monday, now.AddDate(0, 0, 1), 0))
	assert.True(t, MarkPast(GenerateDaySlots(in), monday, now.AddDate(0, 0, -1), 0)[0].Available)
}

func TestIsOnGrid(t *testing.T) {
	cfg := EffectiveDayConfig{IsWorking: true, Start: "08:00", End: "17:00", SlotDurationMinutes: 30, GapMinutes: 10}

	assert.True(t, IsOnGrid(cfg, "08:40"))
	assert.False(t, IsOnGrid(cfg, "08:30"))
	assert.False(t, IsOnGrid(cfg, "16:40"))
}
