// Package cli is the sheetmerge command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kevinwang15/sheetmerge/internal/config"
	"github.com/kevinwang15/sheetmerge/internal/logger"
	"github.com/kevinwang15/sheetmerge/internal/notify"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgPath  string
	logLevel string
	logJSON  bool
	lang     string

	cfg    *config.Config
	log    logger.Logger
	notify *notify.Notifier

	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewRootCommand builds the command tree writing to the given streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root, _ := newRoot(stdin, stdout, stderr)
	return root
}

func newRoot(stdin io.Reader, stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		notify: notify.FromEnv(""),
	}
	a.interactive = isTerminal(stdin) && isTerminal(stdout)

	root := &cobra.Command{
		Use:   "sheetmerge",
		Short: "Merge spreadsheet edits into JSON translation files",
		Long: "sheetmerge compares the values in a spreadsheet or CSV file with a JSON\n" +
			"translation file, lets you keep or discard each difference, and writes\n" +
			"the merged document.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to the config file (default "+config.FileName+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	root.PersistentFlags().StringVar(&a.lang, "lang", "", "language of notifications (en, de)")

	root.AddCommand(
		newDetectCommand(a),
		newApplyCommand(a),
		newDiffCommand(a),
		newReviewCommand(a),
		newShowCommand(a),
	)
	return root, a
}

// setup loads the config file and wires logger and notifier before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath, a.cfgPath != "")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if cmd.Flags().Changed("lang") {
		cfg.Locale = a.lang
	}
	a.cfg = cfg

	a.log = logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Output:     a.stderr,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	a.notify = notify.FromEnv(cfg.Locale)
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log))
	a.log.Debug("configuration loaded", "config", a.cfgPath, "locale", a.notify.Language())
	return nil
}

// Execute runs the command line and returns the process exit code. Failures
// are reported as localized notifications on stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, a := newRoot(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, a.notify.Error(err))
		return 1
	}
	return 0
}
