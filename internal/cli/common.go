package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	xterm "github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/genieblog/internal/config"
	"github.com/mithrel/genieblog/internal/controller"
	"github.com/mithrel/genieblog/internal/prefs"
	"github.com/mithrel/genieblog/internal/present"
	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

// session bundles what most blog commands need.
type session struct {
	ctrl  *controller.Controller
	view  *present.TermView
	prefs prefs.Prefs
	dir   string
}

func newSession(cmd *cobra.Command) (*session, error) {
	app := getApp(cmd)
	dir := config.ResolveDataDir(app.Cfg)
	p, err := prefs.Load(dir)
	if err != nil {
		return nil, err
	}
	view := &present.TermView{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Dir: "."}
	st := &controller.State{Theme: p.Theme, CurrentID: p.CurrentID}
	ctrl := controller.New(app.Client(), view, st)
	ctrl.StepDelay = app.Cfg.GetDuration("progress.step_delay")
	ctrl.RevealDelay = app.Cfg.GetDuration("progress.reveal_delay")
	ctrl.SetTheme(p.Theme)
	return &session{ctrl: ctrl, view: view, prefs: p, dir: dir}, nil
}

// remember persists the current blog and theme.
func (s *session) remember() error {
	s.prefs.CurrentID = s.ctrl.State.CurrentID
	s.prefs.Theme = s.ctrl.State.Theme
	return prefs.Save(s.dir, s.prefs)
}

// resolveID takes the id argument or falls back to the last blog used.
func (s *session) resolveID(args []string) (int64, error) {
	if len(args) > 0 {
		return api.ParseID(args[0])
	}
	if s.prefs.CurrentID == 0 {
		return 0, fmt.Errorf("no blog id given and no current blog")
	}
	return s.prefs.CurrentID, nil
}

// useTerminalRender makes the controller render for the terminal when out
// is a TTY and leaves Markdown untouched otherwise.
func (s *session) useTerminalRender(cmd *cobra.Command, out io.Writer) {
	if !isTTY(out) {
		s.ctrl.Render = func(md string) string { return md }
		return
	}
	width := termWidth(cmd, out)
	theme := s.ctrl.State.Theme
	s.ctrl.Render = func(md string) string {
		rendered, err := render.Terminal(md, theme, width)
		if err != nil {
			return md
		}
		return rendered
	}
}

func isTTY(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func termWidth(cmd *cobra.Command, out io.Writer) int {
	if w := getApp(cmd).Cfg.GetInt("render.width"); w > 0 {
		return w
	}
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func parseOutput(s string) (present.Mode, error) {
	mode, ok := present.ParseMode(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return 0, fmt.Errorf("invalid --output: %s", s)
	}
	return mode, nil
}

func registerOutputCompletion(cmd *cobra.Command, modes ...string) {
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
}

func confirmDelete(title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if !xterm.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
