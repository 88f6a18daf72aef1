package ranking

import (
	"errors"
	"testing"
	"time"

	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/quest"
)

var testRules = quest.NewRules(
	quest.Window{Start: quest.Date(2019, time.July, 28), End: quest.Date(2019, time.August, 30)},
	nil,
)

// okParticipant resolves a participant whose legal quests were earned on the given August days
func okParticipant(t *testing.T, email, location string, augustDays ...int) *participant.Participant {
	t.Helper()
	p := participant.New(0, time.Time{}, email, email, email, "https://example.com/"+email, location)
	quests := make([]quest.Quest, 0, len(augustDays))
	for _, day := range augustDays {
		quests = append(quests, quest.New("Quest", quest.Date(2019, time.August, day)))
	}
	if err := p.Resolve(quests, testRules); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return p
}

func failedParticipant(t *testing.T, email string) *participant.Participant {
	t.Helper()
	p := participant.New(0, time.Time{}, email, email, email, "", "ha noi")
	if err := p.Fail(quest.Wrap(quest.KindFetchFailed, "UNABLE to load QUESTS report page", errors.New("404"))); err != nil {
		t.Fatalf("Fail() error: %v", err)
	}
	return p
}

func emails(ps []*participant.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Email
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAggregate_Partition(t *testing.T) {
	ps := []*participant.Participant{
		okParticipant(t, "a", "Hà Nội", 1),
		failedParticipant(t, "b"),
		okParticipant(t, "c", "ho chi minh", 2, 3),
		okParticipant(t, "d", "Saigon"),
		failedParticipant(t, "e"),
		okParticipant(t, "f", "  Da Nang ", 5),
		participant.New(0, time.Time{}, "unresolved", "", "", "", "ha noi"),
	}

	b := Aggregate(ps, DefaultLocations(), testRules.Window)

	if got := emails(b.Errors); !equalStrings(got, []string{"b", "e"}) {
		t.Errorf("Errors = %v, want [b e]", got)
	}
	if b.OKCount() != 4 {
		t.Errorf("OKCount() = %d, want 4", b.OKCount())
	}

	total := 0
	seen := make(map[string]Region)
	for _, region := range Regions {
		g := b.Group(region)
		total += g.Len()
		for _, p := range g.ByCount {
			if prev, dup := seen[p.Email]; dup {
				t.Errorf("%s in both %s and %s", p.Email, prev, region)
			}
			seen[p.Email] = region
		}
		if len(g.ByTime) != len(g.ByCount) {
			t.Errorf("%s: ByTime has %d, ByCount has %d", region, len(g.ByTime), len(g.ByCount))
		}
	}
	if total != b.OKCount() {
		t.Errorf("location groups cover %d participants, want %d", total, b.OKCount())
	}

	want := map[string]Region{"a": RegionHanoi, "c": RegionHCM, "d": RegionUnknown, "f": RegionDanang}
	for email, region := range want {
		if seen[email] != region {
			t.Errorf("%s classified as %q, want %q", email, seen[email], region)
		}
	}

	if b.RunID == "" {
		t.Error("RunID should be set")
	}
	if !b.Window.Start.Equal(testRules.Window.Start) {
		t.Error("Window should be carried into the bundle")
	}
}

func TestAggregate_ByCountStable(t *testing.T) {
	ps := []*participant.Participant{
		okParticipant(t, "zero-1", "ha noi"),
		okParticipant(t, "two-1", "ha noi", 1, 2),
		okParticipant(t, "one-1", "ha noi", 9),
		okParticipant(t, "two-2", "ha noi", 3, 4),
		okParticipant(t, "zero-2", "ha noi"),
		okParticipant(t, "one-2", "ha noi", 1),
	}

	b := Aggregate(ps, DefaultLocations(), testRules.Window)

	want := []string{"two-1", "two-2", "one-1", "one-2", "zero-1", "zero-2"}
	if got := emails(b.All.ByCount); !equalStrings(got, want) {
		t.Errorf("All.ByCount = %v, want %v", got, want)
	}
	if got := emails(b.Group(RegionHanoi).ByCount); !equalStrings(got, want) {
		t.Errorf("Hanoi.ByCount = %v, want %v", got, want)
	}

	for i := 1; i < len(b.All.ByCount); i++ {
		if b.All.ByCount[i-1].LegalCount() < b.All.ByCount[i].LegalCount() {
			t.Errorf("ByCount not non-increasing at %d", i)
		}
	}

	// Input slice is untouched
	if ps[0].Email != "zero-1" {
		t.Error("Aggregate() reordered its input")
	}
}

func TestAggregate_ByTimeSentinelLast(t *testing.T) {
	ps := []*participant.Participant{
		okParticipant(t, "none-1", "da nang"),
		okParticipant(t, "aug-10", "da nang", 10, 1),
		okParticipant(t, "aug-02", "da nang", 2),
		okParticipant(t, "none-2", "da nang"),
		okParticipant(t, "aug-10b", "da nang", 10),
	}

	b := Aggregate(ps, DefaultLocations(), testRules.Window)

	// The first legal quest in page order decides, not the earliest one.
	want := []string{"aug-02", "aug-10", "aug-10b", "none-1", "none-2"}
	if got := emails(b.Group(RegionDanang).ByTime); !equalStrings(got, want) {
		t.Errorf("Danang.ByTime = %v, want %v", got, want)
	}
	if got := emails(b.All.ByTime); !equalStrings(got, want) {
		t.Errorf("All.ByTime = %v, want %v", got, want)
	}
}

func TestAggregate_AllSentinel(t *testing.T) {
	ps := []*participant.Participant{
		okParticipant(t, "x", "unknown place"),
		okParticipant(t, "y", "unknown place"),
		okParticipant(t, "z", "unknown place"),
	}

	b := Aggregate(ps, DefaultLocations(), testRules.Window)

	want := []string{"x", "y", "z"}
	if got := emails(b.Group(RegionUnknown).ByTime); !equalStrings(got, want) {
		t.Errorf("Unknown.ByTime = %v, want %v", got, want)
	}
	if got := emails(b.Group(RegionUnknown).ByCount); !equalStrings(got, want) {
		t.Errorf("Unknown.ByCount = %v, want %v", got, want)
	}
}

func TestAggregate_Empty(t *testing.T) {
	b := Aggregate(nil, DefaultLocations(), testRules.Window)

	if len(b.Errors) != 0 || b.OKCount() != 0 {
		t.Errorf("empty input produced %d errors, %d ok", len(b.Errors), b.OKCount())
	}
	for _, region := range Regions {
		g := b.Group(region)
		if g == nil || g.ByCount == nil || g.ByTime == nil {
			t.Errorf("group %s should be empty, not nil", region)
		}
	}
}

func TestGroup_Rank(t *testing.T) {
	a := okParticipant(t, "a", "ha noi", 1)
	c := okParticipant(t, "c", "ha noi", 1, 2)
	outsider := okParticipant(t, "o", "ha noi")

	b := Aggregate([]*participant.Participant{a, c}, DefaultLocations(), testRules.Window)

	if r := b.All.Rank(c); r != 1 {
		t.Errorf("Rank(c) = %d, want 1", r)
	}
	if r := b.All.Rank(a); r != 2 {
		t.Errorf("Rank(a) = %d, want 2", r)
	}
	if r := b.All.Rank(outsider); r != 0 {
		t.Errorf("Rank(outsider) = %d, want 0", r)
	}
}
