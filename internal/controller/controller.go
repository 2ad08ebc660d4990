// Package controller drives the blog workflow against a Backend and renders
// results to a View. All page state lives in an explicit State value.
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mithrel/genieblog/internal/client"
	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

const (
	DefaultStepDelay   = 500 * time.Millisecond
	DefaultRevealDelay = time.Second
)

var (
	ErrEmptyContent = errors.New("Blog content cannot be empty")
	ErrNoCurrent    = errors.New("no blog is open")
)

const (
	msgGenerateFailed = "Failed to generate blog"
	msgNoSaved        = "No saved blogs yet"
	msgListFailed     = "Failed to load blogs"
	msgUpdated        = "Blog updated successfully!"
	msgSaveFailed     = "Failed to save blog changes"
	msgEditLoadFailed = "Failed to load blog for editing"
	msgDeleted        = "Blog deleted successfully!"
	msgDeleteFailed   = "Failed to delete blog"
	msgDownloadFailed = "Failed to download blog"
	msgLoadFailed     = "Failed to load blog"
)

type Controller struct {
	Backend Backend
	View    View
	State   *State

	// Render turns Markdown into display HTML. Defaults to render.Preview.
	Render      func(string) string
	StepDelay   time.Duration
	RevealDelay time.Duration
	// Sleep waits d or until ctx ends. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error

	steps map[Step]Status
}

func New(b Backend, v View, st *State) *Controller {
	if st == nil {
		st = &State{}
	}
	return &Controller{
		Backend:     b,
		View:        v,
		State:       st,
		Render:      render.Preview,
		StepDelay:   DefaultStepDelay,
		RevealDelay: DefaultRevealDelay,
		Sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Init applies the stored theme and loads the saved list.
func (c *Controller) Init(ctx context.Context) {
	c.SetTheme(c.State.Theme)
	_ = c.LoadSaved(ctx)
}

func (c *Controller) setStep(ctx context.Context, s Step, st Status) {
	if c.steps == nil {
		c.steps = make(map[Step]Status, len(Steps))
	}
	c.steps[s] = st
	c.View.SetStep(s, st)
	if st == StatusProcessing {
		if n, ok := c.Backend.(progressNotifier); ok {
			_ = n.Progress(ctx, s.Key())
		}
	}
}

// StepStatus reports the last status set for s.
func (c *Controller) StepStatus(s Step) Status {
	if st, ok := c.steps[s]; ok {
		return st
	}
	return StatusPending
}

// Generate walks the progress steps while the backend builds the post.
func (c *Controller) Generate(ctx context.Context, topic string) (err error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	c.View.HideError()
	c.View.HideBlog()
	c.View.ShowProgress()
	for _, s := range Steps {
		c.setStep(ctx, s, StatusPending)
	}
	c.View.SetBusy(true)
	defer c.View.SetBusy(false)
	defer func() {
		if err != nil {
			c.failGenerate(err)
		}
	}()

	c.setStep(ctx, StepGaps, StatusProcessing)
	for _, next := range []Step{StepQuestions, StepMethodology, StepBlog} {
		if err := c.Sleep(ctx, c.StepDelay); err != nil {
			return err
		}
		c.setStep(ctx, next-1, StatusCompleted)
		c.setStep(ctx, next, StatusProcessing)
	}

	res, err := c.Backend.GenerateBlog(ctx, topic)
	if err != nil {
		return err
	}
	c.setStep(ctx, StepBlog, StatusCompleted)

	c.State.CurrentID = res.BlogID
	c.State.Current = currentFromResult(res)
	c.Display(res.Content)

	_ = c.Sleep(ctx, c.RevealDelay)
	c.View.HideProgress()
	c.View.ShowBlog()
	_ = c.LoadSaved(ctx)
	return nil
}

func (c *Controller) failGenerate(err error) {
	msg := msgGenerateFailed
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	c.View.ShowError(msg)
	c.View.HideProgress()
	for _, s := range Steps {
		if c.StepStatus(s) == StatusProcessing {
			c.steps[s] = StatusError
			c.View.SetStep(s, StatusError)
			break
		}
	}
}

// Display renders content and hands the HTML to the view.
func (c *Controller) Display(content string) {
	r := c.Render
	if r == nil {
		r = render.Preview
	}
	c.View.RenderBlog(r(content))
}

// Open makes a saved blog current without showing it.
func (c *Controller) Open(ctx context.Context, id int64) (api.Blog, error) {
	b, err := c.Backend.GetBlog(ctx, id)
	if err != nil {
		c.View.Notify(msgLoadFailed)
		return api.Blog{}, fmt.Errorf("load blog %d: %w", id, err)
	}
	c.State.CurrentID = b.ID
	c.State.Current = currentFromBlog(b)
	return b, nil
}

// Read opens a saved blog and shows it.
func (c *Controller) Read(ctx context.Context, id int64) error {
	b, err := c.Open(ctx, id)
	if err != nil {
		return err
	}
	c.Display(b.Content)
	c.View.ShowBlog()
	return nil
}

// LoadSaved refreshes the saved blogs list.
func (c *Controller) LoadSaved(ctx context.Context) error {
	blogs, err := c.Backend.ListBlogs(ctx)
	if err != nil {
		c.View.ShowSavedMessage(msgListFailed)
		return err
	}
	if len(blogs) == 0 {
		c.View.ShowSavedMessage(msgNoSaved)
		return nil
	}
	c.View.ShowSaved(blogs)
	return nil
}

// BeginEdit loads a blog into the editor.
func (c *Controller) BeginEdit(ctx context.Context, id int64) error {
	b, err := c.Backend.GetBlog(ctx, id)
	if err != nil {
		c.View.Notify(msgEditLoadFailed)
		return fmt.Errorf("load blog %d: %w", id, err)
	}
	c.State.EditingID = id
	c.View.ShowEditor(id, b.Content)
	return nil
}

// EditCurrent edits the blog on screen, if any.
func (c *Controller) EditCurrent(ctx context.Context) error {
	if c.State.CurrentID == 0 {
		return ErrNoCurrent
	}
	return c.BeginEdit(ctx, c.State.CurrentID)
}

// SaveEdit stores the edited content. The editor stays open on failure.
func (c *Controller) SaveEdit(ctx context.Context, content string) error {
	id := c.State.EditingID
	if id == 0 {
		return nil
	}
	content = strings.TrimSpace(content)
	if content == "" {
		c.View.Notify(ErrEmptyContent.Error())
		return ErrEmptyContent
	}
	if err := c.Backend.UpdateBlog(ctx, id, content); err != nil {
		c.View.Notify(msgSaveFailed)
		return fmt.Errorf("update blog %d: %w", id, err)
	}
	c.View.HideEditor()
	if c.State.CurrentID == id {
		c.Display(content)
		if c.State.Current != nil {
			c.State.Current.Content = content
		}
	}
	c.State.EditingID = 0
	c.View.Notify(msgUpdated)
	return nil
}

func (c *Controller) CancelEdit() {
	c.View.HideEditor()
	c.State.EditingID = 0
}

func (c *Controller) RequestDelete(id int64) {
	c.State.PendingDelete = id
	c.View.ShowDeleteConfirm(id)
}

func (c *Controller) CancelDelete() {
	c.View.HideDeleteConfirm()
	c.State.PendingDelete = 0
}

// ConfirmDelete deletes the blog chosen by RequestDelete.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	id := c.State.PendingDelete
	if id == 0 {
		return nil
	}
	if err := c.Backend.DeleteBlog(ctx, id); err != nil {
		c.View.Notify(msgDeleteFailed)
		return fmt.Errorf("delete blog %d: %w", id, err)
	}
	c.View.HideDeleteConfirm()
	if c.State.CurrentID == id {
		c.View.HideBlog()
		c.State.CurrentID = 0
		c.State.Current = nil
	}
	c.State.PendingDelete = 0
	_ = c.LoadSaved(ctx)
	c.View.Notify(msgDeleted)
	return nil
}

// DownloadName is the file name used for a downloaded blog.
func DownloadName(id int64) string { return fmt.Sprintf("blog_%d.md", id) }

// Download saves the current blog through the view.
func (c *Controller) Download(ctx context.Context) error {
	id := c.State.CurrentID
	if id == 0 {
		return nil
	}
	data, _, err := c.Backend.DownloadBlog(ctx, id)
	if err == nil {
		err = c.View.SaveFile(DownloadName(id), data)
	}
	if err != nil {
		c.View.Notify(msgDownloadFailed)
		return fmt.Errorf("download blog %d: %w", id, err)
	}
	return nil
}

// Details shows the research behind the current blog.
func (c *Controller) Details() {
	cur := c.State.Current
	if cur == nil {
		return
	}
	c.View.ShowDetails(PrettyJSON(cur.Gaps), PrettyJSON(cur.Questions), PrettyJSON(cur.Methodology))
}

// PrettyJSON indents raw JSON by two spaces. Missing values print as null.
func PrettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Done closes the blog view.
func (c *Controller) Done() { c.View.HideBlog() }

func (c *Controller) SetTheme(theme string) {
	c.State.Theme = NormalizeTheme(theme)
	c.View.ApplyTheme(c.State.Theme)
}

func (c *Controller) ToggleTheme() string {
	if NormalizeTheme(c.State.Theme) == ThemeDark {
		c.SetTheme(ThemeLight)
	} else {
		c.SetTheme(ThemeDark)
	}
	return c.State.Theme
}
