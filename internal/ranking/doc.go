// Package ranking partitions resolved participants and builds the ranked views used by the
// reports.
//
// Aggregate splits participants into errors and ok, classifies ok participants by location
// into Hà Nội, Đà Nẵng, Hồ Chí Minh or unknown, and sorts every group two ways: by number of
// legal quests (descending) and by the date of the first legal quest (ascending, participants
// without legal quests last). Both sorts are stable, so ties keep roster order.
package ranking
