// Package report renders a counting run for people: the result.txt text report, a colored
// console view, and JSON.
//
// All renderers walk the same sections in the same order: the header with totals and the
// counting window, the errors, then for all locations and for each location group the ranking
// by legal quests followed by the ranking by time of the first legal quest.
package report
