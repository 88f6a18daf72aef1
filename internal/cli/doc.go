// Package cli implements the command-line interface for quest-count.
//
// The root command loads the roster (downloading the Google Docs export when no file is
// given), counts every participant's quests, prints the ranking and saves result.txt, the
// result.json snapshot and the write-back columns of the roster workbook. The show subcommand
// prints the last saved snapshot.
package cli
