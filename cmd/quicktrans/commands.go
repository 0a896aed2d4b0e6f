package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pysugar/quicktrans/internal/db/models"
	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
	"github.com/pysugar/quicktrans/internal/version"
	"github.com/spf13/cobra"
)

func newTranslateCmd(flags *globalFlags) *cobra.Command {
	var to, from string

	cmd := &cobra.Command{
		Use:   "translate [TEXT...]",
		Short: "Translate text with the configured backend",
		Long: `Translate TEXT (or standard input when no TEXT is given) with the
configured platform and record the result in the history.

Examples:
  quicktrans translate --to ja "Good morning"
  pbpaste | quicktrans translate --to zh --from en`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := lang.Parse(to)
			if err != nil {
				return err
			}
			if !target.IsTarget() {
				return fmt.Errorf("--to must be one of zh, en, ja, ko")
			}
			source, err := lang.Parse(from)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if text == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(raw), "\r\n")
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to translate")
			}

			a, err := openApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			translated, err := a.translator.Translate(cmd.Context(), text, target, source)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), translated)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "zh", "Target language: zh, en, ja, ko")
	cmd.Flags().StringVar(&from, "from", "auto", "Source language: zh, en, ja, ko, auto")
	return cmd
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit, offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent translations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.history.History(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records (0 = 50)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find translations containing QUERY (case-sensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.history.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records (0 = 50)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one history record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.history.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no record with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole translation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.history.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d records\n", removed)
			return nil
		},
	}
}

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their default endpoints",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PLATFORM\tKIND\tBASE URL\tMODEL\tTIMEOUT")
			for _, p := range catalog.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Platform, p.Kind, p.BaseURL, p.Model, p.Timeout)
			}
			w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "quicktrans version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.BuildTime)
		},
	}
}

func printRecords(out io.Writer, records []models.TranslationRecord, asJSON bool) error {
	if asJSON {
		if records == nil {
			records = []models.TranslationRecord{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tLANGS\tSOURCE\tTRANSLATION")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s->%s\t%s\t%s\n",
			r.ID, shortTime(r.CreatedAt), r.SourceLang, r.TargetLang, oneLine(r.SourceText), oneLine(r.TranslatedText))
	}
	return w.Flush()
}

func shortTime(ts string) string {
	if len(ts) > 19 {
		return ts[:19]
	}
	return ts
}

// oneLine flattens and shortens text for table output.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}
