package cli

import (
	"github.com/spf13/cobra"
)

func newShowCommand(a *app) *cobra.Command {
	var (
		f       inputFlags
		discard []string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd, &f, true)
			if err != nil {
				return err
			}
			applyDiscards(a, s, discard)
			final, err := s.Apply()
			if err != nil {
				return err
			}
			return writeDocument(a.stdout, final)
		},
	}
	f.register(cmd, restoreUsage)
	cmd.Flags().StringArrayVar(&discard, "discard", nil, "discard the change at this path (repeatable)")
	return cmd
}
