// Package scraper fetches public profile pages and extracts the quests listed in their badge
// markup.
//
// Each badge is a div.public-profile__badge element with exactly three element children: an
// image, the quest title, and a block whose second line is the earned date ("Jul 28, 2019").
// Parsing is all or nothing; the first malformed badge fails the whole page.
package scraper
