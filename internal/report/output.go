package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vietkubers/quest-count/internal/ranking"
)

// Format specifies the output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}

// Write renders the bundle in the given format
func Write(w io.Writer, b *ranking.Bundle, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, b)
	case FormatText:
		return WriteText(w, b)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON outputs the bundle as indented JSON
func WriteJSON(w io.Writer, b *ranking.Bundle) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(b)
}

// WriteText writes the plain text report saved as result.txt
func WriteText(w io.Writer, b *ranking.Bundle) error {
	ew := &errWriter{w: w}

	ew.printf("\n%s\n", Title)
	ew.printf("    Total participants: %d\n", b.OKCount())
	for _, region := range ranking.Regions {
		ew.printf("        %s: %d\n", regionName(region), b.Group(region).Len())
	}
	ew.printf("    Time period:\n")
	ew.printf("        From Date: %s\n", b.Window.Start.Format("2006-01-02"))
	ew.printf("        To Date: %s\n", b.Window.End.Format("2006-01-02"))
	ew.printf("\n")

	if len(b.Errors) > 0 {
		ew.printf("\nERRORS ENCOUNTERED\n")
		for i, p := range b.Errors {
			ew.printf("  %d. %s (%s) - %s\n", i+1, p.Name, p.Email, p.Reason())
		}
	}

	for _, s := range Sections(b) {
		ew.printf("\n%s\n", s.Title)
		for i, p := range s.Members {
			switch s.Order {
			case OrderCount:
				ew.printf("  %d. %s (%s) - %d legal quests (%d total)\n",
					i+1, p.Name, p.Email, p.LegalCount(), len(p.Quests))
			case OrderTime:
				ew.printf("  %d. %s (%s) - Time submitted %s\n",
					i+1, p.Name, p.Email, firstLegal(p))
			}
		}
	}

	return ew.err
}

// regionName is the mixed-case name used in the header totals
func regionName(r ranking.Region) string {
	switch r {
	case ranking.RegionHanoi:
		return "Hà Nội"
	case ranking.RegionDanang:
		return "Đà Nẵng"
	case ranking.RegionHCM:
		return "Hồ Chí Minh"
	default:
		return "Unknown location"
	}
}

// errWriter keeps the first write error
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
