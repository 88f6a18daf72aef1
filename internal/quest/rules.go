package quest

import (
	"fmt"
	"time"
)

// Window is an inclusive range of calendar dates
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow creates a Window from two dates, dropping any time-of-day component.
// It fails if end is before start.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{
		Start: Date(start.Year(), start.Month(), start.Day()),
		End:   Date(end.Year(), end.Month(), end.Day()),
	}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window end %s is before start %s",
			w.End.Format(DateLayout), w.Start.Format(DateLayout))
	}
	return w, nil
}

// Contains reports whether d falls within the window, both ends included.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// String returns "2019-07-28 .. 2019-08-30"
func (w Window) String() string {
	return fmt.Sprintf("%s .. %s", w.Start.Format(DateLayout), w.End.Format(DateLayout))
}

// Rules decide which quests count toward the event
type Rules struct {
	Window   Window
	Excluded map[string]bool // exact titles
}

// NewRules creates Rules for a window and a list of excluded titles
func NewRules(window Window, excluded []string) Rules {
	set := make(map[string]bool, len(excluded))
	for _, title := range excluded {
		set[title] = true
	}
	return Rules{
		Window:   window,
		Excluded: set,
	}
}

// IsLegal reports whether a single quest counts.
// The title must not be excluded and the earned date must lie in the window.
func (r Rules) IsLegal(q Quest) bool {
	if r.Excluded[q.Title] {
		return false
	}
	return r.Window.Contains(q.Earned)
}

// Legal returns the legal subset of quests in their original order.
// Duplicate titles are kept; each one counts.
func (r Rules) Legal(quests []Quest) []Quest {
	legal := make([]Quest, 0, len(quests))
	for _, q := range quests {
		if r.IsLegal(q) {
			legal = append(legal, q)
		}
	}
	return legal
}
