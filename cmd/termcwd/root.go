package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/termcwd/internal/version"
	"github.com/arthur-debert/termcwd/pkg/config"
	"github.com/arthur-debert/termcwd/pkg/core"
	"github.com/arthur-debert/termcwd/pkg/filesystem"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/output"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// NewRootCmd creates and returns the root command. Invoking termcwd
// without a subcommand runs the full reconciliation.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		opts      types.Options
		colorMode string
	)

	rootCmd := &cobra.Command{
		Use:     "termcwd",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				// a broken config file should not block the run
				log.Warn().Err(err).Msg("Could not load config, using defaults")
				cfg = &config.Config{}
			}
			if opts.ThemeDir == "" {
				opts.ThemeDir = cfg.Theme.Dir
			}
			if !cmd.Flags().Changed("copilot") {
				opts.EnableCopilot = cfg.Profile.Copilot
			}
			if !cmd.Flags().Changed("color") && cfg.Output.Color != "" {
				colorMode = cfg.Output.Color
			}

			if err := core.Preflight(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			runner := core.NewRunner(filesystem.NewOS(), opts, nil, nil)
			report := runner.Run()

			printer := output.New(cmd.OutOrStdout(), opts.DryRun, colorMode)
			for _, step := range report.Steps {
				printer.Step(step)
			}
			printer.Summary(report)
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.Flags().StringVar(&opts.ProfilePath, "profile", "", MsgFlagProfile)
	rootCmd.Flags().StringVar(&opts.SettingsPath, "settings", "", MsgFlagSettings)
	rootCmd.Flags().StringVar(&opts.ThemeDir, "theme-dir", "", MsgFlagThemeDir)
	rootCmd.Flags().BoolVar(&opts.EnableCopilot, "copilot", false, MsgFlagCopilot)
	rootCmd.Flags().StringVar(&colorMode, "color", "auto", MsgFlagColor)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	if err := setupDocs(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Could not set up help topics")
	}

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "termcwd version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenConfigShort,
		Long:  MsgGenConfigLong,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.OutOrStdout().Write(config.DefaultTOML())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			var err error
			switch args[0] {
			case "bash":
				err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			if err != nil {
				log.Error().Err(err).Str("shell", args[0]).Msg("Failed to generate completion")
				os.Exit(1)
			}
		},
	}
}
