package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pysugar/quicktrans/internal/discovery"
	"github.com/pysugar/quicktrans/internal/platform"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(flags *globalFlags) *cobra.Command {
	var use string

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find backends that are ready to use",
		Long: `Look for API keys already present on this machine (DEEPSEEK_API_KEY,
OPENAI_API_KEY, ~/.codex/auth.json) and for a running Ollama or MTranServer.

With --use PLATFORM the matching backend becomes the active configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := discovery.Scan(cmd.Context(), nil)

			if use == "" {
				out := cmd.OutOrStdout()
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "PLATFORM\tSOURCE\tAPI URL\tMODEL\tKEY")
				for _, c := range result.Masked().Candidates {
					model := c.ModelName
					if len(c.Models) > 0 {
						model = strings.Join(c.Models, ",")
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Platform, c.Source, c.APIURL, model, c.APIKey)
				}
				return w.Flush()
			}

			p, err := platform.Parse(use)
			if err != nil {
				return err
			}
			cand, ok := result.Find(p)
			if !ok {
				return fmt.Errorf("no usable %s backend found", p)
			}
			svc, err := loadConfig(flags, nil)
			if err != nil {
				return err
			}
			if err := svc.Replace(cand.ApplyTo(svc.Current())); err != nil {
				return err
			}
			cfg := svc.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "now using %s (%s, model %s)\n", cfg.Platform, cfg.APIURL, cfg.ModelName)
			return nil
		},
	}

	cmd.Flags().StringVar(&use, "use", "", "Switch to the discovered backend for PLATFORM")
	return cmd
}
