package report

import (
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/quest"
	"github.com/vietkubers/quest-count/internal/ranking"
)

// Title heads every report
const Title = "GDG - CLOUD STUDY JAMS RESULT"

// Order is how a section is ranked
type Order string

const (
	OrderCount Order = "count"
	OrderTime  Order = "time"
)

// Section is one ranked list in a report
type Section struct {
	Title   string
	Order   Order
	Members []*participant.Participant
}

// Sections lists the ranked sections of a bundle in report order
func Sections(b *ranking.Bundle) []Section {
	sections := make([]Section, 0, 2*(len(ranking.Regions)+1))
	sections = append(sections, groupSections("ALL LOCATION", b.All)...)
	for _, region := range ranking.Regions {
		sections = append(sections, groupSections(region.Label(), b.Group(region))...)
	}
	return sections
}

func groupSections(label string, g *ranking.Group) []Section {
	return []Section{
		{Title: label, Order: OrderCount, Members: g.ByCount},
		{Title: label + " (BY TIME SUBMITTING FIRST QUEST)", Order: OrderTime, Members: g.ByTime},
	}
}

// firstLegal formats the first legal quest date, or "none"
func firstLegal(p *participant.Participant) string {
	d, ok := p.FirstLegalDate()
	if !ok {
		return "none"
	}
	return d.Format(quest.DateLayout)
}
