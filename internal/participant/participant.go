package participant

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/vietkubers/quest-count/internal/quest"
)

// ErrAlreadyResolved is returned when an outcome is assigned twice
var ErrAlreadyResolved = errors.New("participant already resolved")

// Participant represents one roster row and its extraction outcome
type Participant struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Nickname   string    `json:"nickname"`
	RowID      int       `json:"row_id"` // 1-based row in the source sheet
	Timestamp  time.Time `json:"timestamp"`
	ProfileURL string    `json:"profile_url"`
	Location   string    `json:"location"`

	Quests      []quest.Quest `json:"quests,omitempty"`
	LegalQuests []quest.Quest `json:"legal_quests,omitempty"`
	Err         error         `json:"-"`

	resolved bool
}

// NormalizeEmail trims and lowercases an address for use as the unique key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// New creates an unresolved Participant; string fields are trimmed and the email normalized.
func New(rowID int, timestamp time.Time, email, name, nickname, profileURL, location string) *Participant {
	return &Participant{
		Email:      NormalizeEmail(email),
		Name:       strings.TrimSpace(name),
		Nickname:   strings.TrimSpace(nickname),
		RowID:      rowID,
		Timestamp:  timestamp,
		ProfileURL: strings.TrimSpace(profileURL),
		Location:   strings.TrimSpace(location),
	}
}

// Resolve records a successful extraction
func (p *Participant) Resolve(quests []quest.Quest, rules quest.Rules) error {
	if p.resolved {
		return ErrAlreadyResolved
	}
	if quests == nil {
		quests = []quest.Quest{}
	}
	p.Quests = quests
	p.LegalQuests = rules.Legal(quests)
	p.resolved = true
	return nil
}

// Fail records a failed extraction. Quest lists are cleared.
func (p *Participant) Fail(err error) error {
	if p.resolved {
		return ErrAlreadyResolved
	}
	if err == nil {
		err = quest.Errorf(quest.KindUnknown, "extraction failed")
	}
	p.Err = err
	p.Quests = nil
	p.LegalQuests = nil
	p.resolved = true
	return nil
}

// Resolved reports whether an outcome has been assigned
func (p *Participant) Resolved() bool {
	return p.resolved
}

// OK reports whether extraction succeeded
func (p *Participant) OK() bool {
	return p.Err == nil
}

// LegalCount returns the number of legal quests
func (p *Participant) LegalCount() int {
	return len(p.LegalQuests)
}

// FirstLegalDate returns the earned date of the first legal quest in page order.
// The bool is false when there are no legal quests.
func (p *Participant) FirstLegalDate() (time.Time, bool) {
	if len(p.LegalQuests) == 0 {
		return time.Time{}, false
	}
	return p.LegalQuests[0].Earned, true
}

// ErrorKind returns the extraction error kind, or "" for ok participants
func (p *Participant) ErrorKind() quest.Kind {
	if p.Err == nil {
		return ""
	}
	return quest.KindOf(p.Err)
}

// Reason returns the human readable failure text for the error report
func (p *Participant) Reason() string {
	if p.Err == nil {
		return ""
	}
	var qe *quest.Error
	if errors.As(p.Err, &qe) {
		return qe.Reason
	}
	return p.Err.Error()
}

// MarshalJSON adds the error kind and reason, which Err cannot carry through encoding/json
func (p *Participant) MarshalJSON() ([]byte, error) {
	type alias Participant
	return json.Marshal(struct {
		*alias
		ErrorKind quest.Kind `json:"error_kind,omitempty"`
		Error     string     `json:"error,omitempty"`
	}{
		alias:     (*alias)(p),
		ErrorKind: p.ErrorKind(),
		Error:     p.Reason(),
	})
}
