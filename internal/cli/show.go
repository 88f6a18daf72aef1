package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vietkubers/quest-count/internal/report"
	"github.com/vietkubers/quest-count/internal/storage"
)

// newShowCmd prints the last saved snapshot, or one participant of it
func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [email]",
		Short: "Show the result of the last run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			setupLogger(cfg, opts.verbose, cmd.ErrOrStderr())

			store, err := storage.New(cfg.Output.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				record, err := store.GetRecord(args[0])
				if err != nil {
					return err
				}
				if format == report.FormatJSON {
					return writeJSON(out, record)
				}
				writeRecord(out, record)
				return nil
			}

			snapshot, err := store.LoadSnapshot()
			if err != nil {
				return err
			}
			if format == report.FormatJSON {
				return writeJSON(out, snapshot)
			}
			writeSnapshot(out, snapshot)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeSnapshot(w io.Writer, s *storage.Snapshot) {
	if s.RunID == "" {
		fmt.Fprintln(w, "No saved result.")
		return
	}

	fmt.Fprintf(w, "%s\n", report.Title)
	fmt.Fprintf(w, "Run %s generated %s\n", s.RunID, s.GeneratedAt)
	fmt.Fprintf(w, "Window %s .. %s, %d participants\n\n", s.WindowStart, s.WindowEnd, len(s.Participants))
	for _, r := range s.Participants {
		writeRecord(w, r)
	}
}

func writeRecord(w io.Writer, r *storage.Record) {
	if !r.OK() {
		fmt.Fprintf(w, "  ERROR %s (%s) - %s\n", r.Name, r.Email, r.Error)
		return
	}

	first := r.FirstLegal
	if first == "" {
		first = "none"
	}
	fmt.Fprintf(w, "  %d. %s (%s) - %d legal quests (%d total), first %s, %s #%d\n",
		r.RankAll, r.Name, r.Email, r.LegalQuests, r.Quests, first, r.Region.Label(), r.RankRegion)
}
