package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved blog",
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
			s.ctrl.RequestDelete(id)
			if err := confirmDelete(fmt.Sprintf("Delete blog %d?", id), "Are you sure you want to delete this blog?", yes); err != nil {
				s.ctrl.CancelDelete()
				return err
			}
			if err := s.ctrl.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			return s.remember()
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation prompt")
	return cmd
}
