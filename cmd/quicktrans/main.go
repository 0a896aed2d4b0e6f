package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pysugar/quicktrans/internal/config"
	"github.com/pysugar/quicktrans/internal/db"
	"github.com/pysugar/quicktrans/internal/events"
	"github.com/pysugar/quicktrans/internal/platform/catalog"
	"github.com/pysugar/quicktrans/internal/translate"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type globalFlags struct {
	configPath string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "quicktrans",
		Short: "Clipboard translator backend",
		Long: `quicktrans translates text through a configurable backend (Ollama,
DeepSeek, ChatGPT or MTranServer) and keeps a searchable history.

Run "quicktrans serve" for the API used by the desktop windows, or use the
subcommands directly from a terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := catalog.Init(); err != nil {
				log.Printf("[catalog] Using built-in platform presets: %v", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", envOr("QUICKTRANS_CONFIG", ""), "Path to config.json (default: <user config dir>/quicktrans/config.json)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", envOr("QUICKTRANS_DB", ""), "Path to the history database (default: <user config dir>/quicktrans/translation_history.db)")

	root.AddCommand(
		newServeCmd(flags),
		newTranslateCmd(flags),
		newHistoryCmd(flags),
		newSearchCmd(flags),
		newDeleteCmd(flags),
		newClearCmd(flags),
		newConfigCmd(flags),
		newDiscoverCmd(flags),
		newPlatformsCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the services shared by the subcommands.
type app struct {
	config     *config.Service
	database   *gorm.DB
	history    *db.HistoryStore
	translator *translate.Service
}

func (a *app) Close() {
	if a.database != nil {
		if err := db.Close(a.database); err != nil {
			log.Printf("[history] %v", err)
		}
	}
}

func resourceDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "quicktrans"), nil
}

func (f *globalFlags) resolve() (configPath, dbPath string, err error) {
	configPath, dbPath = f.configPath, f.dbPath
	if configPath != "" && dbPath != "" {
		return configPath, dbPath, nil
	}
	dir, err := resourceDir()
	if err != nil {
		return "", "", err
	}
	if configPath == "" {
		configPath = filepath.Join(dir, config.FileName)
	}
	if dbPath == "" {
		dbPath = filepath.Join(dir, db.DefaultFileName)
	}
	return configPath, dbPath, nil
}

func loadConfig(f *globalFlags, publisher events.Publisher) (*config.Service, error) {
	configPath, _, err := f.resolve()
	if err != nil {
		return nil, err
	}
	return config.Load(config.NewFileStorageAt(configPath), config.WithPublisher(publisher))
}

// openApp loads config and history and wires the translation service.
func openApp(f *globalFlags, publisher events.Publisher) (*app, error) {
	cfg, err := loadConfig(f, publisher)
	if err != nil {
		return nil, err
	}
	_, dbPath, err := f.resolve()
	if err != nil {
		return nil, err
	}
	database, err := db.InitDB(dbPath)
	if err != nil {
		return nil, err
	}
	history := db.NewHistoryStore(database, publisher)

	svc, err := translate.New(translate.Deps{
		Config:    cfg,
		Transport: translate.NewHTTPTransport(),
		Store:     history,
		Timeout:   catalog.Timeout,
	})
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}
	return &app{config: cfg, database: database, history: history, translator: svc}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
