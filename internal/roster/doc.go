// Package roster reads event participants from the registration spreadsheet and writes the
// computed results back into it.
//
// The sheet layout is the Google Forms export used by the event: columns A..F hold the
// submission timestamp, email, name, nickname, public profile URL and location. A header row
// starting with "Timestamp" is skipped; rows whose first cell is not a date are reported as
// ignored.
package roster
