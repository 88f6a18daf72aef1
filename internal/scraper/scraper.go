package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/vietkubers/quest-count/internal/quest"
)

const (
	UserAgent   = "quest-count/1.0 (github.com/vietkubers/quest-count)"
	Timeout     = 30 * time.Second
	MaxPageSize = 10 << 20

	// BadgeSelector matches one earned quest on a public profile page
	BadgeSelector = "div.public-profile__badge"
)

// Reasons shown in the error report
const (
	ReasonLoad      = "UNABLE to load QUESTS report page"
	ReasonNoQuests  = "UNABLE to parse QUESTS report (seems no quests at all)"
	ReasonStructure = "UNEXPECTED quests report content"
	ReasonDate      = "UNEXPECTED quest earned date"
)

// Fetcher retrieves the raw markup of a profile page
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Scraper fetches profile pages over HTTP
type Scraper struct {
	client    *http.Client
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads a profile page. Transport errors and non-200 responses are returned as
// *quest.Error of kind KindFetchFailed.
func (s *Scraper) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, quest.Wrap(quest.KindFetchFailed, ReasonLoad, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, quest.Wrap(quest.KindFetchFailed, ReasonLoad, fmt.Errorf("fetching page: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, quest.Wrap(quest.KindFetchFailed, ReasonLoad,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		return nil, quest.Wrap(quest.KindFetchFailed, ReasonLoad, fmt.Errorf("reading body: %w", err))
	}
	return body, nil
}

// ParseBadges extracts quests from profile page markup in document order.
// On the first malformed badge no quests are returned, only the error.
func ParseBadges(r io.Reader) ([]quest.Quest, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, quest.Wrap(quest.KindNoQuests, ReasonNoQuests, fmt.Errorf("parsing HTML: %w", err))
	}

	badges := doc.Find("body").Find(BadgeSelector)
	if badges.Length() == 0 {
		return nil, quest.Errorf(quest.KindNoQuests, ReasonNoQuests)
	}

	quests := make([]quest.Quest, 0, badges.Length())
	var parseErr error
	badges.EachWithBreak(func(i int, badge *goquery.Selection) bool {
		q, err := parseBadge(i, badge)
		if err != nil {
			parseErr = err
			return false
		}
		quests = append(quests, q)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return quests, nil
}

// parseBadge reads one badge: child 1 holds the title, line 2 of child 2 the earned date
func parseBadge(index int, badge *goquery.Selection) (quest.Quest, error) {
	children := badge.Children()
	if children.Length() != 3 {
		return quest.Quest{}, quest.Wrap(quest.KindBadgeStructure, ReasonStructure,
			fmt.Errorf("badge %d has %d child elements, want 3", index, children.Length()))
	}

	title := strings.TrimSpace(children.Eq(1).Text())

	dateText, err := earnedLine(children.Eq(2).Text())
	if err != nil {
		return quest.Quest{}, quest.Wrap(quest.KindDateParse, ReasonDate,
			fmt.Errorf("badge %d (%s): %w", index, title, err))
	}

	earned, err := quest.ParseEarnedDate(dateText)
	if err != nil {
		return quest.Quest{}, quest.Wrap(quest.KindDateParse, ReasonDate,
			fmt.Errorf("badge %d (%s): %w", index, title, err))
	}

	return quest.New(title, earned), nil
}

// earnedLine returns the second line of the date block, e.g. "Earned\nJul 28, 2019"
func earnedLine(text string) (string, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("date block %q has no second line", strings.TrimSpace(text))
	}
	return strings.TrimSpace(lines[1]), nil
}
