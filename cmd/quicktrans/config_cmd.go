package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/lang"
	"github.com/pysugar/quicktrans/internal/platform"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
	"github.com/spf13/cobra"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the backend configuration",
	}

	var showSecret bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadConfig(flags, nil)
			if err != nil {
				return err
			}
			cfg := svc.Current()
			if !showSecret {
				cfg = cfg.Redacted()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
	show.Flags().BoolVar(&showSecret, "show-secret", false, "Include the API key")

	set := &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Update configuration fields",
		Long: `Update one or more configuration fields and persist them.

Keys: apiKey, apiUrl, platform, modelName, theme, prompt, systemPrompt, langNames.
Switching platform without apiUrl/modelName fills them from the platform preset.

Example:
  quicktrans config set platform=DeepSeek apiKey=sk-...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadConfig(flags, nil)
			if err != nil {
				return err
			}
			next, err := applyAssignments(svc.Current(), args)
			if err != nil {
				return err
			}
			if err := svc.Replace(next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config updated")
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadConfig(flags, nil)
			if err != nil {
				return err
			}
			cfg, err := svc.Reset()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config reset (platform=%s, model=%s)\n", cfg.Platform, cfg.ModelName)
			return nil
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

// applyAssignments applies KEY=VALUE pairs to cfg.
func applyAssignments(cfg config.Config, args []string) (config.Config, error) {
	var urlSet, modelSet, platformChanged bool

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return cfg, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		switch key {
		case "apiKey":
			cfg.APIKey = value
		case "apiUrl":
			cfg.APIURL = value
			urlSet = true
		case "platform":
			p, err := platform.Parse(value)
			if err != nil {
				return cfg, err
			}
			platformChanged = p != cfg.Platform
			cfg.Platform = p
		case "modelName":
			cfg.ModelName = value
			modelSet = true
		case "theme":
			cfg.Theme = value
		case "prompt":
			cfg.Prompt = value
		case "systemPrompt":
			cfg.SystemPrompt = value
		case "langNames":
			c, err := lang.ParseConvention(value)
			if err != nil {
				return cfg, err
			}
			cfg.LangNames = c
		default:
			return cfg, fmt.Errorf("unknown config key %q", key)
		}
	}

	if platformChanged {
		if preset, ok := catalog.Get(cfg.Platform); ok {
			if !urlSet {
				cfg.APIURL = preset.BaseURL
			}
			if !modelSet {
				cfg.ModelName = preset.Model
			}
		}
	}
	return cfg, nil
}
