package storage

import (
	"time"

	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/quest"
	"github.com/vietkubers/quest-count/internal/ranking"
)

// Record is the flattened outcome of one participant
type Record struct {
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	RowID       int            `json:"row_id"`
	Location    string         `json:"location"`
	Region      ranking.Region `json:"region,omitempty"`
	Quests      int            `json:"quests"`
	LegalQuests int            `json:"legal_quests"`
	FirstLegal  string         `json:"first_legal,omitempty"` // YYYY-MM-DD
	ErrorKind   quest.Kind     `json:"error_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	RankAll     int            `json:"rank_all,omitempty"`
	RankRegion  int            `json:"rank_region,omitempty"`
}

// OK reports whether the participant was counted
func (r Record) OK() bool {
	return r.ErrorKind == ""
}

// Snapshot is the persisted result of one run
type Snapshot struct {
	RunID        string    `json:"run_id"`
	GeneratedAt  string    `json:"generated_at"`
	UpdatedAt    string    `json:"updated_at"`
	WindowStart  string    `json:"window_start"`
	WindowEnd    string    `json:"window_end"`
	Participants []*Record `json:"participants"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{Participants: make([]*Record, 0)}
}

// Find returns the record for an email, or nil
func (s *Snapshot) Find(email string) *Record {
	email = participant.NormalizeEmail(email)
	for _, r := range s.Participants {
		if r.Email == email {
			return r
		}
	}
	return nil
}

// FromBundle flattens a bundle: errors first in input order, then ok participants by rank.
func FromBundle(b *ranking.Bundle, locs ranking.Locations) *Snapshot {
	snapshot := &Snapshot{
		RunID:        b.RunID,
		GeneratedAt:  b.GeneratedAt.Format(time.RFC3339),
		WindowStart:  b.Window.Start.Format(quest.DateLayout),
		WindowEnd:    b.Window.End.Format(quest.DateLayout),
		Participants: make([]*Record, 0, len(b.Errors)+b.OKCount()),
	}

	for _, p := range b.Errors {
		snapshot.Participants = append(snapshot.Participants, newRecord(p))
	}

	for i, p := range b.All.ByCount {
		r := newRecord(p)
		r.Region = locs.Classify(p.Location)
		r.RankAll = i + 1
		r.RankRegion = b.Group(r.Region).Rank(p)
		snapshot.Participants = append(snapshot.Participants, r)
	}

	return snapshot
}

func newRecord(p *participant.Participant) *Record {
	r := &Record{
		Email:       p.Email,
		Name:        p.Name,
		RowID:       p.RowID,
		Location:    p.Location,
		Quests:      len(p.Quests),
		LegalQuests: p.LegalCount(),
		ErrorKind:   p.ErrorKind(),
	}
	if !p.OK() {
		r.Error = p.Reason()
	}
	if d, ok := p.FirstLegalDate(); ok {
		r.FirstLegal = d.Format(quest.DateLayout)
	}
	return r
}
