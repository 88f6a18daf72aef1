package quest

import (
	"fmt"
	"strings"
	"time"
)

// EarnedLayout is the layout of the earned date printed under each badge, e.g. "Jul 28, 2019".
const EarnedLayout = "Jan 2, 2006"

// DateLayout is the layout used for dates in config files and reports.
const DateLayout = "2006-01-02"

// Quest is a single completed quest taken from a profile page
type Quest struct {
	Title  string    `json:"title"`
	Earned time.Time `json:"earned_date"` // UTC midnight, no time component
}

// New creates a Quest, truncating earned to its calendar date
func New(title string, earned time.Time) Quest {
	return Quest{
		Title:  title,
		Earned: Date(earned.Year(), earned.Month(), earned.Day()),
	}
}

// Date returns the calendar date y-m-d as UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseEarnedDate parses text in EarnedLayout ("Jul 28, 2019").
// Surrounding whitespace is ignored.
func ParseEarnedDate(text string) (time.Time, error) {
	t, err := time.Parse(EarnedLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing earned date %q: %w", text, err)
	}
	return Date(t.Year(), t.Month(), t.Day()), nil
}

// String formats the quest for log and report lines
func (q Quest) String() string {
	return fmt.Sprintf("%s (%s)", q.Title, q.Earned.Format(DateLayout))
}
