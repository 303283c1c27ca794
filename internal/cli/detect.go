package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinwang15/sheetmerge"
)

func newDetectCommand(a *app) *cobra.Command {
	var f inputFlags
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "List the differences between the table and the JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd, &f, false)
			if err != nil {
				return err
			}
			printChanges(a.stdout, s.Changes())
			fmt.Fprintln(a.stderr, a.notify.Changes(s.ChangeSet()))

			if f.decisions != "" {
				if err := sheetmerge.WriteDecisionsFile(f.decisions, s.ChangeSet()); err != nil {
					return err
				}
				fmt.Fprintln(a.stderr, a.notify.Message("decisions_saved", map[string]any{"Path": f.decisions}, -1))
			}
			return nil
		},
	}
	f.register(cmd, "write the detected changes as a decisions file for later review")
	return cmd
}
