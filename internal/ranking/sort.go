package ranking

import (
	"sort"

	"github.com/vietkubers/quest-count/internal/participant"
)

// ByLegalCount reports whether a ranks before b: more legal quests first
func ByLegalCount(a, b *participant.Participant) bool {
	return a.LegalCount() > b.LegalCount()
}

// ByFirstLegal reports whether a ranks before b: earlier first legal quest first.
// A participant without legal quests sorts after every dated one.
func ByFirstLegal(a, b *participant.Participant) bool {
	dateA, okA := a.FirstLegalDate()
	dateB, okB := b.FirstLegalDate()

	if okA && okB {
		return dateA.Before(dateB)
	}
	// Only a has a date
	return okA && !okB
}

// sortStable returns a sorted copy; ties keep input order
func sortStable(ps []*participant.Participant, less func(a, b *participant.Participant) bool) []*participant.Participant {
	sorted := make([]*participant.Participant, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
