package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinwang15/sheetmerge/internal/tui"
)

var errNoTerminal = errors.New("sheetmerge: review needs an interactive terminal, use detect and apply --discard instead")

func newReviewCommand(a *app) *cobra.Command {
	var (
		f      inputFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Keep or discard each change interactively",
		Long: "review opens a list of the detected changes.\n\n" +
			"  up/down  move\n" +
			"  space    keep or discard the selected change\n" +
			"  a        apply the kept changes\n" +
			"  d        show the diff of the result\n" +
			"  w        export the result\n" +
			"  s        save the decisions (with --decisions)\n" +
			"  q        quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.interactive {
				return errNoTerminal
			}
			s, err := a.openSession(cmd, &f, true)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				a.cfg.Output = output
			}
			if err := a.cfg.Diff.Validate(); err != nil {
				return err
			}

			model := tui.NewApp(s, tui.Options{
				Output:    a.cfg.Output,
				Decisions: f.decisions,
				Diff:      a.cfg.DiffOptions(),
				Notifier:  a.notify,
				Logger:    a.log,
			})
			if err := tui.Run(cmd.Context(), model); err != nil {
				return fmt.Errorf("sheetmerge: review: %w", err)
			}
			return nil
		},
	}
	f.register(cmd, "decisions file to resume from (without --table) and to save to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "export file (default final-output.json)")
	return cmd
}
