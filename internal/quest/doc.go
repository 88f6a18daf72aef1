// Package quest provides the quest record scraped from a public profile page and the
// eligibility rules that decide which quests count toward the event.
//
// A quest is a title plus the calendar date it was earned. Rules combine an inclusive date
// window with a set of excluded titles; Rules.Legal keeps the quests that satisfy both, in
// page order, without deduplication.
//
// The package also defines the per-participant extraction error kinds shared by the scraper
// and the counter.
package quest
