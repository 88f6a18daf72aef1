package ranking

import (
	"time"

	"github.com/google/uuid"
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/quest"
)

// Group is one ranked set of ok participants
type Group struct {
	Region  Region                     `json:"region,omitempty"` // empty for the all-locations group
	ByCount []*participant.Participant `json:"by_count"`
	ByTime  []*participant.Participant `json:"by_time"`
}

// Len returns the number of participants in the group
func (g *Group) Len() int {
	return len(g.ByCount)
}

// Rank returns the 1-based position of p in ByCount, or 0 if absent
func (g *Group) Rank(p *participant.Participant) int {
	for i, member := range g.ByCount {
		if member == p {
			return i + 1
		}
	}
	return 0
}

// Bundle is the result of one counting run
type Bundle struct {
	RunID       string                     `json:"run_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Window      quest.Window               `json:"window"`
	Errors      []*participant.Participant `json:"errors"`
	All         *Group                     `json:"all"`
	Groups      map[Region]*Group          `json:"groups"`
}

// Group returns the group for a region; it is never nil
func (b *Bundle) Group(r Region) *Group {
	if g, ok := b.Groups[r]; ok {
		return g
	}
	return &Group{Region: r}
}

// OKCount returns the number of ok participants
func (b *Bundle) OKCount() int {
	return b.All.Len()
}

// Aggregate partitions resolved participants and builds every ranked view.
// Participants that were never resolved are left out entirely.
func Aggregate(ps []*participant.Participant, locs Locations, window quest.Window) *Bundle {
	bundle := &Bundle{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Window:      window,
		Errors:      make([]*participant.Participant, 0),
		Groups:      make(map[Region]*Group, len(Regions)),
	}

	ok := make([]*participant.Participant, 0, len(ps))
	byRegion := make(map[Region][]*participant.Participant, len(Regions))
	for _, p := range ps {
		if !p.Resolved() {
			continue
		}
		if !p.OK() {
			bundle.Errors = append(bundle.Errors, p)
			continue
		}
		ok = append(ok, p)
		region := locs.Classify(p.Location)
		byRegion[region] = append(byRegion[region], p)
	}

	bundle.All = newGroup("", ok)
	for _, region := range Regions {
		bundle.Groups[region] = newGroup(region, byRegion[region])
	}

	return bundle
}

func newGroup(region Region, members []*participant.Participant) *Group {
	if members == nil {
		members = make([]*participant.Participant, 0)
	}
	return &Group{
		Region:  region,
		ByCount: sortStable(members, ByLegalCount),
		ByTime:  sortStable(members, ByFirstLegal),
	}
}
