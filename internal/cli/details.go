package cli

import (
	"github.com/spf13/cobra"
)

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details [id]",
		Short: "Show the research gaps, questions and methodology behind a blog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := s.resolveID(args)
			if err != nil {
				return err
			}
			if _, err := s.ctrl.Open(cmd.Context(), id); err != nil {
				return err
			}
			s.ctrl.Details()
			return s.remember()
		},
	}
}
