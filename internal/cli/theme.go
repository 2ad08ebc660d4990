package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/controller"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{controller.ThemeDark, controller.ThemeLight, "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				switch arg := strings.ToLower(args[0]); arg {
				case "toggle":
					s.ctrl.ToggleTheme()
				case controller.ThemeDark, controller.ThemeLight:
					s.ctrl.SetTheme(arg)
				default:
					return fmt.Errorf("unknown theme %q", args[0])
				}
				if err := s.remember(); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.ctrl.State.Theme)
			return err
		},
	}
}
