package analytics

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// YearMonth is a calendar month; arithmetic never goes through durations.
type YearMonth struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func ParseYearMonth(value string) (YearMonth, error) {
	parsed, err := time.Parse(monthLayout, strings.TrimSpace(value))
	if err != nil {
		return YearMonth{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return MonthOf(parsed), nil
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m YearMonth) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m YearMonth) AddMonths(n int) YearMonth {
	index := m.index() + n
	year := index / 12
	month := index % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

func (m YearMonth) Before(other YearMonth) bool {
	return m.index() < other.index()
}

func (m YearMonth) After(other YearMonth) bool {
	return m.index() > other.index()
}

func (m YearMonth) index() int {
	return m.Year*12 + int(m.Month) - 1
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// contributionMonth reads the calendar month of a stored date string.
// Timestamps are moved into loc first.
func contributionMonth(value string, loc *time.Location) (YearMonth, bool) {
	value = strings.TrimSpace(value)
	for i, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if i == 1 {
			parsed = parsed.In(loc)
		}
		return MonthOf(parsed), true
	}
	return YearMonth{}, false
}
