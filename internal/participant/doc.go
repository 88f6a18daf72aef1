// Package participant holds the roster record for one event participant and the outcome of
// extracting their quests.
//
// A Participant is created once per roster row and resolved exactly once, either with the
// quests found on their profile page (Resolve) or with an extraction error (Fail). After that it
// is read-only.
package participant
