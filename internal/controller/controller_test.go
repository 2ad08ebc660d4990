package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/genieblog/internal/client"
	"github.com/mithrel/genieblog/pkg/api"
)

type fakeBackend struct {
	blogs       map[int64]api.Blog
	genErr      error
	listErr     error
	getErr      error
	updateErr   error
	deleteErr   error
	downloadErr error
	pings       []string
	nextID      int64
}

func newBackend() *fakeBackend {
	return &fakeBackend{blogs: map[int64]api.Blog{}, nextID: 1}
}

func (f *fakeBackend) add(topic, content string) int64 {
	id := f.nextID
	f.nextID++
	f.blogs[id] = api.Blog{ID: id, Topic: topic, Content: content,
		ResearchGaps: json.RawMessage(`{"gaps":[]}`), ResearchQuestions: json.RawMessage(`{}`), Methodology: json.RawMessage(`{}`)}
	return id
}

func (f *fakeBackend) GenerateBlog(_ context.Context, topic string) (api.GenerateResult, error) {
	if f.genErr != nil {
		return api.GenerateResult{}, f.genErr
	}
	id := f.add(topic, "# "+topic)
	return api.GenerateResult{Success: true, BlogID: id, Content: "# " + topic, Gaps: json.RawMessage(`{"gaps":[{"statement":"s","score":1}]}`)}, nil
}

func (f *fakeBackend) ListBlogs(context.Context) ([]api.BlogSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []api.BlogSummary{}
	for id := f.nextID - 1; id > 0; id-- {
		if b, ok := f.blogs[id]; ok {
			out = append(out, api.BlogSummary{ID: b.ID, Topic: b.Topic})
		}
	}
	return out, nil
}

func (f *fakeBackend) GetBlog(_ context.Context, id int64) (api.Blog, error) {
	if f.getErr != nil {
		return api.Blog{}, f.getErr
	}
	b, ok := f.blogs[id]
	if !ok {
		return api.Blog{}, &client.APIError{Status: 404, Message: "Blog not found"}
	}
	return b, nil
}

func (f *fakeBackend) UpdateBlog(_ context.Context, id int64, content string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	b := f.blogs[id]
	b.Content = content
	f.blogs[id] = b
	return nil
}

func (f *fakeBackend) DeleteBlog(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blogs, id)
	return nil
}

func (f *fakeBackend) DownloadBlog(_ context.Context, id int64) ([]byte, string, error) {
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	return []byte(f.blogs[id].Content), "etag", nil
}

func (f *fakeBackend) Progress(_ context.Context, step string) error {
	f.pings = append(f.pings, step)
	return nil
}

type recView struct {
	events  []string
	html    string
	saved   []api.BlogSummary
	notes   []string
	files   map[string][]byte
	details [3]string
	theme   string
}

func (v *recView) log(format string, args ...any) { v.events = append(v.events, fmt.Sprintf(format, args...)) }

func (v *recView) ShowError(msg string)          { v.log("error:%s", msg) }
func (v *recView) HideError()                    { v.log("hide-error") }
func (v *recView) ShowProgress()                 { v.log("show-progress") }
func (v *recView) HideProgress()                 { v.log("hide-progress") }
func (v *recView) SetStep(s Step, st Status)     { v.log("step%d:%s", int(s), st) }
func (v *recView) SetBusy(b bool)                { v.log("busy:%v", b) }
func (v *recView) RenderBlog(html string)        { v.html = html; v.log("render") }
func (v *recView) ShowBlog()                     { v.log("show-blog") }
func (v *recView) HideBlog()                     { v.log("hide-blog") }
func (v *recView) ShowSaved(b []api.BlogSummary) { v.saved = b; v.log("saved:%d", len(b)) }
func (v *recView) ShowSavedMessage(msg string)   { v.saved = nil; v.log("saved-msg:%s", msg) }
func (v *recView) ShowEditor(id int64, c string) { v.log("editor:%d:%s", id, c) }
func (v *recView) HideEditor()                   { v.log("hide-editor") }
func (v *recView) ShowDeleteConfirm(id int64)    { v.log("confirm:%d", id) }
func (v *recView) HideDeleteConfirm()            { v.log("hide-confirm") }
func (v *recView) ApplyTheme(t string)           { v.theme = t }
func (v *recView) Notify(msg string)             { v.notes = append(v.notes, msg) }
func (v *recView) ShowDetails(g, q, m string)    { v.details = [3]string{g, q, m} }
func (v *recView) SaveFile(name string, d []byte) error {
	if v.files == nil {
		v.files = map[string][]byte{}
	}
	v.files[name] = d
	return nil
}

func newController(b *fakeBackend) (*Controller, *recView) {
	v := &recView{}
	c := New(b, v, &State{})
	c.StepDelay = 0
	c.RevealDelay = 0
	return c, v
}

func TestGenerateWalksSteps(t *testing.T) {
	b := newBackend()
	c, v := newController(b)

	require.NoError(t, c.Generate(context.Background(), "  Solar Sails "))
	assert.Equal(t, []string{
		"hide-error", "hide-blog", "show-progress",
		"step1:pending", "step2:pending", "step3:pending", "step4:pending",
		"busy:true",
		"step1:processing",
		"step1:completed", "step2:processing",
		"step2:completed", "step3:processing",
		"step3:completed", "step4:processing",
		"step4:completed",
		"render",
		"hide-progress", "show-blog",
		"saved:1",
		"busy:false",
	}, v.events)
	assert.Equal(t, "<p><h1>Solar Sails</h1></p>", v.html)
	assert.Equal(t, int64(1), c.State.CurrentID)
	require.NotNil(t, c.State.Current)
	assert.Equal(t, []string{"step1", "step2", "step3", "step4"}, b.pings)
	for _, s := range Steps {
		assert.Equal(t, StatusCompleted, c.StepStatus(s))
	}
}

func TestGenerateBlankTopicIsIgnored(t *testing.T) {
	c, v := newController(newBackend())
	require.NoError(t, c.Generate(context.Background(), "   "))
	assert.Empty(t, v.events)
}

func TestGenerateFailureMarksProcessingStep(t *testing.T) {
	b := newBackend()
	b.genErr = &client.APIError{Status: 500, Message: "Failed to fetch research gaps"}
	c, v := newController(b)

	err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, v.events, "error:Failed to fetch research gaps")
	assert.Equal(t, StatusError, c.StepStatus(StepBlog))
	assert.Equal(t, StatusCompleted, c.StepStatus(StepMethodology))
	assert.Equal(t, "busy:false", v.events[len(v.events)-1])
	assert.Equal(t, int64(0), c.State.CurrentID)

	b.genErr = errors.New("connection refused")
	v.events = nil
	_ = c.Generate(context.Background(), "x")
	assert.Contains(t, v.events, "error:Failed to generate blog")
}

func TestGenerateCancelledDuringDelay(t *testing.T) {
	c, _ := newController(newBackend())
	c.StepDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Generate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, c.StepStatus(StepGaps))
	assert.Equal(t, StatusPending, c.StepStatus(StepQuestions))
}

func TestReadAndLoadSaved(t *testing.T) {
	b := newBackend()
	c, v := newController(b)

	require.NoError(t, c.LoadSaved(context.Background()))
	assert.Contains(t, v.events, "saved-msg:No saved blogs yet")

	id := b.add("t", "*hi*")
	require.NoError(t, c.Read(context.Background(), id))
	assert.Equal(t, "<p><em>hi</em></p>", v.html)
	assert.Equal(t, id, c.State.CurrentID)

	assert.Error(t, c.Read(context.Background(), 99))
	assert.Equal(t, []string{"Failed to load blog"}, v.notes)

	b.listErr = errors.New("down")
	assert.Error(t, c.LoadSaved(context.Background()))
	assert.Contains(t, v.events, "saved-msg:Failed to load blogs")
}

func TestEditFlow(t *testing.T) {
	b := newBackend()
	id := b.add("t", "old")
	c, v := newController(b)
	ctx := context.Background()

	assert.ErrorIs(t, c.EditCurrent(ctx), ErrNoCurrent)
	require.NoError(t, c.Read(ctx, id))
	require.NoError(t, c.EditCurrent(ctx))
	assert.Contains(t, v.events, "editor:1:old")
	assert.Equal(t, id, c.State.EditingID)

	assert.ErrorIs(t, c.SaveEdit(ctx, "  \n "), ErrEmptyContent)
	assert.Equal(t, id, c.State.EditingID)

	require.NoError(t, c.SaveEdit(ctx, "  **new**\n"))
	assert.Equal(t, "**new**", b.blogs[id].Content)
	assert.Equal(t, "<p><strong>new</strong></p>", v.html)
	assert.Equal(t, "**new**", c.State.Current.Content)
	assert.Equal(t, int64(0), c.State.EditingID)
	assert.Equal(t, []string{"Blog content cannot be empty", "Blog updated successfully!"}, v.notes)

	b.updateErr = errors.New("boom")
	require.NoError(t, c.BeginEdit(ctx, id))
	assert.Error(t, c.SaveEdit(ctx, "x"))
	assert.Equal(t, "Failed to save blog changes", v.notes[len(v.notes)-1])
	c.CancelEdit()
	assert.Equal(t, int64(0), c.State.EditingID)

	b.getErr = errors.New("gone")
	assert.Error(t, c.BeginEdit(ctx, id))
	assert.Equal(t, "Failed to load blog for editing", v.notes[len(v.notes)-1])
}

func TestEditOtherBlogKeepsCurrent(t *testing.T) {
	b := newBackend()
	a := b.add("a", "A")
	other := b.add("b", "B")
	c, v := newController(b)
	ctx := context.Background()
	require.NoError(t, c.Read(ctx, a))
	require.NoError(t, c.BeginEdit(ctx, other))
	require.NoError(t, c.SaveEdit(ctx, "B2"))
	assert.Equal(t, "<p>A</p>", v.html)
}

func TestDeleteFlow(t *testing.T) {
	b := newBackend()
	id := b.add("t", "c")
	keep := b.add("k", "c")
	c, v := newController(b)
	ctx := context.Background()
	require.NoError(t, c.Read(ctx, id))

	c.RequestDelete(id)
	assert.Equal(t, id, c.State.PendingDelete)
	c.CancelDelete()
	assert.Equal(t, int64(0), c.State.PendingDelete)
	require.NoError(t, c.ConfirmDelete(ctx))
	assert.Contains(t, b.blogs, id)

	c.RequestDelete(id)
	require.NoError(t, c.ConfirmDelete(ctx))
	assert.NotContains(t, b.blogs, id)
	assert.Equal(t, int64(0), c.State.CurrentID)
	assert.Nil(t, c.State.Current)
	assert.Equal(t, []api.BlogSummary{{ID: keep, Topic: "k"}}, v.saved)
	assert.Equal(t, "Blog deleted successfully!", v.notes[len(v.notes)-1])

	b.deleteErr = errors.New("boom")
	c.RequestDelete(keep)
	assert.Error(t, c.ConfirmDelete(ctx))
	assert.Equal(t, "Failed to delete blog", v.notes[len(v.notes)-1])
	assert.Equal(t, keep, c.State.PendingDelete)
}

func TestDownloadAndDetails(t *testing.T) {
	b := newBackend()
	c, v := newController(b)
	ctx := context.Background()

	require.NoError(t, c.Download(ctx))
	assert.Empty(t, v.files)
	c.Details()
	assert.Equal(t, [3]string{}, v.details)

	require.NoError(t, c.Generate(ctx, "x"))
	require.NoError(t, c.Download(ctx))
	assert.Equal(t, []byte("# x"), v.files["blog_1.md"])

	c.Details()
	assert.Equal(t, "{\n  \"gaps\": [\n    {\n      \"statement\": \"s\",\n      \"score\": 1\n    }\n  ]\n}", v.details[0])
	assert.Equal(t, "null", v.details[1])

	b.downloadErr = errors.New("boom")
	assert.Error(t, c.Download(ctx))
	assert.Equal(t, "Failed to download blog", v.notes[len(v.notes)-1])
}

func TestTheme(t *testing.T) {
	c, v := newController(newBackend())
	c.Init(context.Background())
	assert.Equal(t, ThemeDark, v.theme)
	assert.Equal(t, ThemeLight, c.ToggleTheme())
	assert.Equal(t, ThemeDark, c.ToggleTheme())
	c.SetTheme("solarized")
	assert.Equal(t, ThemeDark, c.State.Theme)

	c.Done()
	assert.Equal(t, "hide-blog", v.events[len(v.events)-1])
}
