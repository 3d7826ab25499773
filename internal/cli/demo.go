package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pullsheet/internal/config"
	"pullsheet/internal/logging"
	"pullsheet/internal/tui"
)

type demoFlags struct {
	noColor  bool
	matched  bool
	logFile  string
	logLevel string
}

func buildDemoCommand() *cobra.Command {
	var f demoFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open the interactive demo",
		Long: `Open a list of articles; each opens in a full-screen sheet.

Drag a sheet down with the mouse to dismiss it. If its content is scrolled,
the drag scrolls it back to the top first. Logs go to the log file, never
to the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyDemoFlags(cmd, &cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closer.Close()
			log.Info("demo starting", "config", loader.File(), "matched", cfg.Appearance.MatchedTransition)

			return tui.Run(tui.Options{
				Config:  cfg,
				Logger:  log,
				Changes: loader.Watch(),
			})
		},
	}
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colors")
	cmd.Flags().BoolVar(&f.matched, "matched", false, "open sheets with a matched (zoom) transition")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file (default from config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// applyDemoFlags overrides cfg with the flags the user actually set.
func applyDemoFlags(cmd *cobra.Command, cfg *config.Config, f demoFlags) {
	flags := cmd.Flags()
	if flags.Changed("no-color") {
		cfg.Appearance.NoColor = f.noColor
	}
	if flags.Changed("matched") {
		cfg.Appearance.MatchedTransition = f.matched
	}
	if flags.Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func loadConfig(cmd *cobra.Command) (*config.Loader, config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, config.Config{}, err
	}
	loader := config.NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	return loader, cfg, nil
}
