package present

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mithrel/genieblog/internal/controller"
	"github.com/mithrel/genieblog/pkg/api"
)

// ProgressSink receives step updates, e.g. a *tui.ProgressUI.
type ProgressSink interface {
	SetStep(step controller.Step, status controller.Status)
}

// TermView is the controller.View used by the command line. Blogs are
// written to Out; notices, errors and plain progress go to Err.
type TermView struct {
	Out io.Writer
	Err io.Writer
	// Progress takes step updates; nil prints one line per change to Err.
	Progress ProgressSink
	// Quiet suppresses plain progress lines.
	Quiet bool
	// List renders the saved list; nil ignores list refreshes.
	List func([]api.BlogSummary) error
	// Dir is where SaveFile writes; Path overrides the whole target.
	Dir  string
	Path string

	rendered string
	shown    bool

	LastError   string
	Notices     []string
	Theme       string
	EditingID   int64
	EditContent string
	PendingID   int64
	SavedPath   string
}

var _ controller.View = (*TermView)(nil)

// ShowError records msg; the command returns it as its error.
func (v *TermView) ShowError(msg string) { v.LastError = msg }

func (v *TermView) HideError() { v.LastError = "" }

func (v *TermView) ShowProgress() {}

func (v *TermView) HideProgress() {}

func (v *TermView) SetStep(step controller.Step, status controller.Status) {
	if v.Progress != nil {
		v.Progress.SetStep(step, status)
		return
	}
	if v.Quiet || status == controller.StatusPending {
		return
	}
	fmt.Fprintf(v.Err, "[%d/4] %-20s %s\n", int(step), step.String(), status.Label())
}

func (v *TermView) SetBusy(bool) {}

func (v *TermView) RenderBlog(s string) {
	v.rendered = s
	v.shown = false
}

// ShowBlog writes the last rendered blog once. It waits while a progress
// sink owns the terminal; call it again after the sink is detached.
func (v *TermView) ShowBlog() {
	if v.Progress != nil || v.shown || v.rendered == "" {
		return
	}
	v.shown = true
	fmt.Fprint(v.Out, v.rendered)
	if v.rendered[len(v.rendered)-1] != '\n' {
		fmt.Fprintln(v.Out)
	}
}

func (v *TermView) HideBlog() { v.shown = true }

func (v *TermView) ShowSaved(blogs []api.BlogSummary) {
	if v.List != nil {
		if err := v.List(blogs); err != nil {
			fmt.Fprintln(v.Err, "error: "+err.Error())
		}
	}
}

func (v *TermView) ShowSavedMessage(msg string) {
	if v.List != nil {
		fmt.Fprintln(v.Err, msg)
	}
}

func (v *TermView) ShowEditor(id int64, content string) {
	v.EditingID = id
	v.EditContent = content
}

func (v *TermView) HideEditor() {
	v.EditingID = 0
	v.EditContent = ""
}

func (v *TermView) ShowDeleteConfirm(id int64) { v.PendingID = id }

func (v *TermView) HideDeleteConfirm() { v.PendingID = 0 }

func (v *TermView) ShowDetails(gaps, questions, methodology string) {
	fmt.Fprintf(v.Out, "Research Gaps:\n%s\n\nResearch Questions:\n%s\n\nMethodology:\n%s\n", gaps, questions, methodology)
}

// SaveFile writes data to Path, or to Dir/name when Path is empty. A Path
// of "-" writes to Out.
func (v *TermView) SaveFile(name string, data []byte) error {
	if v.Path == "-" {
		_, err := v.Out.Write(data)
		return err
	}
	target := v.Path
	if target == "" {
		target = filepath.Join(v.Dir, name)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return err
	}
	v.SavedPath = target
	return nil
}

func (v *TermView) ApplyTheme(theme string) { v.Theme = theme }

func (v *TermView) Notify(msg string) {
	v.Notices = append(v.Notices, msg)
	fmt.Fprintln(v.Err, msg)
}
