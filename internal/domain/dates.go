package domain

import "time"

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast дата раньше сегодняшнего дня (сравниваются только даты)
func IsDateInPast(date, now time.Time) bool {
	return compareDates(date, now) < 0
}

// compareDates сравнивает календарные даты без учета часового пояса
func compareDates(a, b time.Time) int {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	switch {
	case y1 != y2:
		return sign(y1 - y2)
	case m1 != m2:
		return sign(int(m1) - int(m2))
	default:
		return sign(d1 - d2)
	}
}

// DateInRange from <= date <= to; nil to означает открытый интервал
func DateInRange(date, from time.Time, to *time.Time) bool {
	if compareDates(date, from) < 0 {
		return false
	}
	return to == nil || compareDates(date, *to) <= 0
}

// DaysInMonth список дат месяца в часовом поясе loc
func DaysInMonth(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
