package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const timeStringLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString время суток в формате "HH:MM" без даты и часового пояса
type TimeString string

// NewTimeString создает TimeString из часов и минут time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" (допускается "HH:MM:SS")
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") {
		s = s[:len(timeStringLayout)]
	}

	t, err := time.Parse(timeStringLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return NewTimeString(t), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustTimeString как NewTimeStringFromString, но паникует при ошибке
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет формат "HH:MM"
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeStringLayout, string(ts)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return nil
}

// Minutes возвращает количество минут от полуночи.
// Для невалидного значения возвращает -1
func (ts TimeString) Minutes() int {
	t, err := time.Parse(timeStringLayout, string(ts))
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// AddMinutes прибавляет минуты. Результат "24:00" допустим только как граница конца дня
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	base := ts.Minutes()
	if base < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}

	total := base + minutes
	if total == 24*60 {
		return TimeString("24:00"), nil
	}
	return NewTimeStringFromMinutes(total)
}

// IsBefore возвращает true, если ts раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return ts.minutesOrEnd() < other.minutesOrEnd()
}

// IsAfter возвращает true, если ts позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return ts.minutesOrEnd() > other.minutesOrEnd()
}

// Equal сравнивает время без учета формата записи
func (ts TimeString) Equal(other TimeString) bool {
	return ts.minutesOrEnd() == other.minutesOrEnd()
}

// minutesOrEnd учитывает "24:00" как конец суток
func (ts TimeString) minutesOrEnd() int {
	if ts == "24:00" {
		return 24 * 60
	}
	return ts.Minutes()
}

// OnDate возвращает момент времени на указанную дату в часовом поясе даты
func (ts TimeString) OnDate(date time.Time) time.Time {
	m := ts.minutesOrEnd()
	if m < 0 {
		m = 0
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(m) * time.Minute)
}

// Scan реализует sql.Scanner для колонок TIME и TEXT
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

// UnmarshalJSON валидирует время при декодировании
func (ts *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
