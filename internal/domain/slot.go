package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Slot candidate appointment interval [Start, End)
type Slot struct {
	Start     types.TimeString
	End       types.TimeString
	Available bool
}

// SlotInput everything slot generation needs for one professional and one date
type SlotInput struct {
	ProfessionalID int64
	Date           time.Time
	Template       *ScheduleTemplate
	Blocks         []*ScheduleBlock
	Appointments   []*Appointment
	Policy         BlockPolicy
}

// SlotGrid slot sequence of a working day: from Start with step duration+gap while the slot fits before End.
// A candidate that intersects the break is dropped and the sequence restarts at the break end.
// Blocks and appointments are not applied
func SlotGrid(cfg EffectiveDayConfig) []Slot {
	slots := make([]Slot, 0)
	if !cfg.IsWorking || cfg.SlotDurationMinutes <= 0 || cfg.GapMinutes < 0 {
		return slots
	}

	start, end := cfg.Start.Minutes(), cfg.End.Minutes()
	if start < 0 || end < 0 {
		return slots
	}

	breakStart, breakEnd := -1, -1
	if cfg.HasBreak() {
		breakStart, breakEnd = cfg.BreakStart.Minutes(), cfg.BreakEnd.Minutes()
	}

	t := start
	for t+cfg.SlotDurationMinutes <= end {
		slotEnd := t + cfg.SlotDurationMinutes

		if breakEnd >= 0 && t < breakEnd && slotEnd > breakStart {
			t = breakEnd
			continue
		}

		slots = append(slots, Slot{
			Start:     minutesToTime(t),
			End:       minutesToTime(slotEnd),
			Available: true,
		})
		t += cfg.Step()
	}
	return slots
}

// IsOnGrid returns true if start is the start of a grid slot
func IsOnGrid(cfg EffectiveDayConfig, start types.TimeString) bool {
	for _, s := range SlotGrid(cfg) {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}

// GenerateDaySlots ordered slots of the day after the break and blocks.
// Slots taken by a non-cancelled appointment stay in the list with Available=false
func GenerateDaySlots(in SlotInput) []Slot {
	result := make([]Slot, 0)

	if !in.Template.Covers(in.Date) {
		return result
	}

	cfg := in.Template.ResolveDayConfig(in.Date.Weekday())
	if !cfg.IsWorking {
		return result
	}

	blocks := effectiveBlocks(in)
	for _, b := range blocks {
		if b.IsFullDay() {
			return result
		}
	}

	occupied := occupiedStarts(in)

	for _, slot := range SlotGrid(cfg) {
		if overlapsAny(blocks, slot) {
			continue
		}
		if occupied[slot.Start.Minutes()] {
			slot.Available = false
		}
		result = append(result, slot)
	}

	return result
}

// GenerateSlots bookable slots only
func GenerateSlots(in SlotInput) []Slot {
	all := GenerateDaySlots(in)
	free := make([]Slot, 0, len(all))
	for _, s := range all {
		if s.Available {
			free = append(free, s)
		}
	}
	return free
}

// MarkPast flags slots that start before now+noticeMinutes on the current day.
// Past dates lose all slots, future dates are returned unchanged
func MarkPast(slots []Slot, date, now time.Time, noticeMinutes int) []Slot {
	if IsDateInPast(date, now) {
		return make([]Slot, 0)
	}
	if !IsSameDay(date, now) {
		return slots
	}

	threshold := now.Hour()*60 + now.Minute() + noticeMinutes
	for i := range slots {
		if slots[i].Start.Minutes() < threshold {
			slots[i].Available = false
		}
	}
	return slots
}

// FindSlot returns the slot starting at start
func FindSlot(slots []Slot, start types.TimeString) (Slot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return Slot{}, false
}

func effectiveBlocks(in SlotInput) []*ScheduleBlock {
	blocks := make([]*ScheduleBlock, 0, len(in.Blocks))
	for _, b := range in.Blocks {
		if b == nil || !belongsTo(b.ProfessionalID, in.ProfessionalID) {
			continue
		}
		if b.RemovesAvailability(in.Policy) && b.Covers(in.Date) {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func overlapsAny(blocks []*ScheduleBlock, slot Slot) bool {
	for _, b := range blocks {
		if b.Overlaps(slot.Start, slot.End) {
			return true
		}
	}
	return false
}

func occupiedStarts(in SlotInput) map[int]bool {
	occupied := make(map[int]bool, len(in.Appointments))
	for _, a := range in.Appointments {
		if a == nil || !a.Occupies() || !belongsTo(a.ProfessionalID, in.ProfessionalID) {
			continue
		}
		if IsSameDay(a.Date, in.Date) {
			occupied[a.StartTime.Minutes()] = true
		}
	}
	return occupied
}

// belongsTo zero ProfessionalID on either side matches anything
func belongsTo(owner, professionalID int64) bool {
	return owner == 0 || professionalID == 0 || owner == professionalID
}

func minutesToTime(m int) types.TimeString {
	if m == 24*60 {
		return types.TimeString("24:00")
	}
	ts, err := types.NewTimeStringFromMinutes(m)
	if err != nil {
		return ""
	}
	return ts
}
