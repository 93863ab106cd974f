package domain

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinGapMinutes               = 0
	MaxGapMinutes               = 240
	MaxObservationLength        = 1000
	MaxBlockReasonLength        = 500
	MaxCancellationReasonLength = 500
)

// DateFormat YYYY-MM-DD
const DateFormat = "2006-01-02"

// DaysInWeek количество элементов в DayOverrides, индекс = time.Weekday
const DaysInWeek = 7
