package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiffCommand(a *app) *cobra.Command {
	var (
		f          inputFlags
		sideBySide bool
		contextN   int
		width      int
		discard    []string
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the line diff between the JSON file and the merged result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd, &f, true)
			if err != nil {
				return err
			}
			applyDiscards(a, s, discard)
			if _, err := s.Apply(); err != nil {
				return err
			}

			if cmd.Flags().Changed("side-by-side") {
				a.cfg.Diff.SideBySide = sideBySide
			}
			if cmd.Flags().Changed("context") {
				a.cfg.Diff.Context = contextN
			}
			if cmd.Flags().Changed("width") {
				a.cfg.Diff.Width = width
			}
			if err := a.cfg.Diff.Validate(); err != nil {
				return err
			}

			diff, err := s.Diff(a.cfg.DiffOptions())
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(a.stderr, a.notify.Message("no_changes", nil, -1))
				return nil
			}
			fmt.Fprint(a.stdout, diff)
			return nil
		},
	}
	f.register(cmd, restoreUsage)
	cmd.Flags().BoolVar(&sideBySide, "side-by-side", false, "show original and updated in two columns")
	cmd.Flags().IntVar(&contextN, "context", 3, "unchanged lines shown around each change")
	cmd.Flags().IntVar(&width, "width", 120, "total width of the side-by-side view")
	cmd.Flags().StringArrayVar(&discard, "discard", nil, "discard the change at this path (repeatable)")
	return cmd
}
