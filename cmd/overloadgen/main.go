// Command overloadgen expands the overload attribute in Rust source
// files.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/refaktor/overloadgen"
	"github.com/refaktor/overloadgen/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "overloadgen.toml"

var rootCmd = &cobra.Command{
	Use:   "overloadgen [flags] <file.rs> [file.rs...]",
	Short: "Expand #[overload] items in Rust source files",
	Long: `overloadgen rewrites every function, trait and impl block marked with
the overload attribute into zero-sized dispatch values, so that several
declarations may share one name. The input files are expanded in the
order given as one compilation, so a trait may be implemented in a later
file than it is declared in. Each file is written next to its input as
<name>.expanded.rs, unless --out-dir or --stdout say otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path := defaultConfigPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "created default config at", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("color", "auto", "colorize log output (auto|on|off)")

	rootCmd.Flags().StringP("config", "c", defaultConfigPath, "config file; the built-in defaults are used if the default file doesn't exist")
	rootCmd.Flags().StringP("out-dir", "o", "", "directory to write expanded files to, instead of next to their inputs")
	rootCmd.Flags().Bool("stdout", false, "print expanded files to stdout instead of writing them")
	rootCmd.Flags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.Flags().Bool("stats", false, "print expansion and timing stats")
	rootCmd.Flags().Bool("warnings-as-errors", false, "treat every warning as an error")

	rootCmd.AddCommand(initCmd)
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
		fd := os.Stderr.Fd()
		color.NoColor = os.Getenv("NO_COLOR") != "" || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q, want auto, on or off", mode)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	if err != nil {
		var cErr *config.Error
		if errors.As(err, &cErr) {
			return nil, errors.New(cErr.String())
		}
		return nil, err
	}
	return cfg, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := setupColor(cmd); err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	showStats, _ := cmd.Flags().GetBool("stats")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	outDir, _ := cmd.Flags().GetString("out-dir")
	werror, _ := cmd.Flags().GetBool("warnings-as-errors")
	if toStdout && outDir != "" {
		return errors.New("--stdout cannot be used with --out-dir")
	}

	logger := &Logger{Writer: os.Stderr}
	if quiet {
		logger.MinLevel = ERROR
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if werror {
		cfg.Diagnostics.WarningsAsErrors = true
	}

	out := overloadgen.WriteFiles(outDir)
	if toStdout {
		out = overloadgen.WriteTo(cmd.OutOrStdout())
	}

	timeStart := time.Now()
	results, err := overloadgen.Run(cmd.Context(), cfg, args, out)
	timeTotal := time.Since(timeStart)
	if err != nil {
		return err
	}

	for _, r := range results {
		for _, d := range r.Diagnostics {
			logger.Diagnostic(d)
		}
		if !toStdout {
			logger.Log(INFO, "wrote %v", overloadgen.ExpandedPath(r.Path, outDir))
		}
	}

	total := overloadgen.Total(results)
	if showStats {
		printStats(cmd.ErrOrStderr(), results, total, timeTotal)
	}
	return expansionErr(results)
}

// expansionErr folds the error diagnostics of every file into one
// error, or returns nil if there are none.
func expansionErr(results []*overloadgen.FileResult) error {
	var errs *multierror.Error
	for _, r := range results {
		errs = multierror.Append(errs, r.Err())
	}
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = func(es []error) string {
		return fmt.Sprintf("expansion failed with %v error(s)", len(es))
	}
	return errs
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := &Logger{Writer: os.Stderr}
		logger.Log(FATAL, "%v", err)
	}
}
