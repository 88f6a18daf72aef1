package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/ranking"
)

// ANSI palette used for quest chips; black is never a background
var chipColors = []lipgloss.Color{"1", "2", "3", "4", "5", "6", "7", "9", "10", "11", "12", "13", "14", "15"}

// Console prints progress and results to a terminal
type Console struct {
	w        io.Writer
	width    int
	detail   bool
	banner   lipgloss.Style
	errBadge lipgloss.Style
	heading  lipgloss.Style
	label    lipgloss.Style
	email    lipgloss.Style
	ordinal  lipgloss.Style
	count    lipgloss.Style
	renderer *lipgloss.Renderer
}

// NewConsole creates a console renderer. width is the terminal width; quest chips wrap at
// 80% of it. detail controls whether every quest title is listed.
func NewConsole(w io.Writer, width int, detail bool) *Console {
	if width <= 0 {
		width = 80
	}
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:        w,
		width:    width,
		detail:   detail,
		renderer: r,
		banner:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")).Background(lipgloss.Color("11")),
		errBadge: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")),
		heading:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5")),
		label:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")).Background(lipgloss.Color("10")),
		email:    r.NewStyle().Foreground(lipgloss.Color("6")),
		ordinal:  r.NewStyle().Foreground(lipgloss.Color("12")).Background(lipgloss.Color("15")),
		count:    r.NewStyle().Foreground(lipgloss.Color("2")).Background(lipgloss.Color("11")),
	}
}

func (c *Console) println(parts ...string) {
	fmt.Fprintln(c.w, strings.Join(parts, " "))
}

func (c *Console) who(p *participant.Participant) string {
	return fmt.Sprintf("%s (%s)", p.Name, c.email.Render(p.Email))
}

// Participant prints the outcome for one participant as soon as it is known
func (c *Console) Participant(p *participant.Participant) {
	if !p.OK() {
		c.println()
		c.println(c.errBadge.Render(" ERROR "), "UNABLE to count QUESTS for", c.who(p), "-", p.Reason())
		return
	}

	c.println()
	c.println(c.label.Render(" QUEST FOUND "), c.who(p), "-", fmt.Sprintf("%d quests", len(p.Quests)))
	if !c.detail {
		return
	}
	for _, line := range c.chipLines(p) {
		c.println()
		c.println("      " + line)
	}
}

// chipLines renders quest titles as colored chips, wrapped to 80% of the width
func (c *Console) chipLines(p *participant.Participant) []string {
	maxLen := c.width * 8 / 10
	var lines []string
	var line []string
	lineLen := 0

	for i, q := range p.Quests {
		width := lipgloss.Width(q.Title)
		if len(line) > 0 && lineLen+width > maxLen {
			lines = append(lines, strings.Join(line, " "))
			line, lineLen = nil, 0
		}
		bg := chipColors[i%len(chipColors)]
		chip := c.renderer.NewStyle().Background(bg).Foreground(lipgloss.Color("0")).Render(q.Title)
		line = append(line, chip)
		lineLen += width
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return lines
}

// Result prints the final ranking
func (c *Console) Result(b *ranking.Bundle) {
	c.println()
	c.println()
	c.println(c.banner.Render(" FINAL RESULT "))
	c.println(fmt.Sprintf("Window %s, %d participants ok, %d errors", b.Window, b.OKCount(), len(b.Errors)))

	if len(b.Errors) > 0 {
		c.println()
		c.println(c.errBadge.Render(" ERRORS ENCOUNTERED "))
		for _, p := range b.Errors {
			c.println()
			c.println(c.errBadge.Render(" ERROR "), c.who(p), p.Reason())
		}
	}

	for _, s := range Sections(b) {
		c.println()
		c.println()
		c.println(c.heading.Render(" " + s.Title + " "))
		for i, p := range s.Members {
			c.println()
			ordinal := c.ordinal.Render(fmt.Sprintf("%2d.", i+1))
			switch s.Order {
			case OrderCount:
				c.println(c.label.Render(" QUEST BY LOC "), c.who(p))
				c.println("      "+ordinal,
					c.count.Render(fmt.Sprintf("%3d LEGAL QUESTS", p.LegalCount())),
					c.count.Render(fmt.Sprintf("%3d TOTAL QUESTS", len(p.Quests))))
			case OrderTime:
				c.println(c.label.Render(" QUEST BY TIME "), c.who(p))
				c.println("      "+ordinal, c.count.Render("DATE SUBMITTED "+firstLegal(p)))
			}
		}
	}
}

// Saved tells the user where artifacts were written
func (c *Console) Saved(paths ...string) {
	styled := make([]string, len(paths))
	for i, p := range paths {
		styled[i] = c.email.Render(p)
	}
	c.println()
	c.println("RESULT saved in", strings.Join(styled, " and "))
}
