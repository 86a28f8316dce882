package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/runner"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/brettbedarf/memfs/requests"
)

// Version information injected at build time
var Version = "dev"

type cliFlags struct {
	configPath  string
	verbose     int
	output      string
	stopOnError bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		util.GetLogger("main").Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "memfs",
		Short: "In-memory filesystem driven by op scripts",
		Long: `memfs mounts an empty in-memory namespace and runs a script of
filesystem operations (create, open, read, write, seek, close, mkdir,
rmdir, stat, ls) against it, printing one result per operation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().IntVarP(&flags.verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")

	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run an op script against a fresh filesystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args[0], flags)
		},
	}
	runCmd.Flags().BoolVar(&flags.stopOnError, "stop-on-error", false, "Stop at the first failed operation")
	runCmd.Flags().StringVarP(&flags.output, "output", "o", "table", "Output format (table|json|yaml)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memfs %s\n", Version)
		},
	}

	rootCmd.AddCommand(runCmd, versionCmd)
	return rootCmd
}

// loadConfig reads the config file when given, with the verbose flag taking
// precedence over the file's log level
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(flags.configPath); err != nil {
			return nil, err
		}
	}
	if flags.configPath == "" || cmd.Flags().Changed("verbose") {
		cfg.Merge(&config.ConfigOverride{LogLvl: &flags.verbose})
	}
	return cfg, nil
}

func runScript(cmd *cobra.Command, scriptPath string, flags *cliFlags) error {
	switch flags.output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", flags.output)
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	util.InitializeLoggerTo(cmd.ErrOrStderr(), cfg.LogLvl)
	logger := util.GetLogger("main")

	reqs, err := requests.LoadScriptFile(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to load script %s: %w", scriptPath, err)
	}
	logger.Debug().Str("script", scriptPath).Int("ops", len(reqs)).Msg("Script loaded")

	fsys := filesystem.Mount(cfg)
	r := runner.New(fsys)
	r.StopOnError = flags.stopOnError

	results, err := r.Run(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info().Int("ops", len(results)).Int("failed", failed).Int("open", fsys.OpenCount()).Msg("Script finished")

	if err := printResults(cmd.OutOrStdout(), flags.output, results); err != nil {
		return err
	}
	if failed > 0 && flags.stopOnError {
		return fmt.Errorf("%d of %d operations failed", failed, len(results))
	}
	return nil
}
