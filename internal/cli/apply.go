package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kevinwang15/sheetmerge"
)

const restoreUsage = "decisions file from detect or review, used instead of --table"

// applyDiscards turns off the given paths before the final document is built.
func applyDiscards(a *app, s *sheetmerge.Session, paths []string) {
	cs := s.ChangeSet()
	for _, p := range paths {
		c, ok := cs.Lookup(p)
		if !ok {
			a.log.Warn("no change for discarded path", "path", p)
			continue
		}
		if c.Keep {
			s.Toggle(p)
		}
	}
}

func newApplyCommand(a *app) *cobra.Command {
	var (
		f       inputFlags
		output  string
		patch   string
		discard []string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Write the JSON file with the kept changes applied",
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
			if cmd.Flags().Changed("output") {
				a.cfg.Output = output
			}

			if err := writeFile(a.cfg.Output, s.Export); err != nil {
				return err
			}
			fmt.Fprintln(a.stderr, a.notify.Changes(s.ChangeSet()))
			fmt.Fprintln(a.stderr, a.notify.Message("exported", map[string]any{"Path": a.cfg.Output}, -1))

			if patch != "" {
				b, err := s.ChangeSet().PatchJSON()
				if err != nil {
					return err
				}
				if err := writeFile(patch, func(w io.Writer) error {
					_, err := w.Write(b)
					return err
				}); err != nil {
					return err
				}
				fmt.Fprintln(a.stderr, a.notify.Message("patch_saved", map[string]any{"Path": patch}, -1))
			}
			return nil
		},
	}
	f.register(cmd, restoreUsage)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default "+sheetmerge.DefaultExportName+")")
	cmd.Flags().StringVar(&patch, "patch", "", "also write the kept changes as an RFC 6902 JSON Patch")
	cmd.Flags().StringArrayVar(&discard, "discard", nil, "discard the change at this path (repeatable)")
	return cmd
}
