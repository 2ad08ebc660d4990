package controller

import (
	"context"

	"github.com/mithrel/genieblog/pkg/api"
)

// Backend is the blog API, satisfied by *client.Client.
type Backend interface {
	GenerateBlog(ctx context.Context, topic string) (api.GenerateResult, error)
	ListBlogs(ctx context.Context) ([]api.BlogSummary, error)
	GetBlog(ctx context.Context, id int64) (api.Blog, error)
	UpdateBlog(ctx context.Context, id int64, content string) error
	DeleteBlog(ctx context.Context, id int64) error
	DownloadBlog(ctx context.Context, id int64) ([]byte, string, error)
}

// progressNotifier is implemented by backends that accept step pings.
type progressNotifier interface {
	Progress(ctx context.Context, step string) error
}

// View is the display surface driven by the controller.
type View interface {
	ShowError(msg string)
	HideError()
	ShowProgress()
	HideProgress()
	SetStep(step Step, status Status)
	SetBusy(busy bool)

	RenderBlog(html string)
	ShowBlog()
	HideBlog()

	ShowSaved(blogs []api.BlogSummary)
	ShowSavedMessage(msg string)

	ShowEditor(id int64, content string)
	HideEditor()
	ShowDeleteConfirm(id int64)
	HideDeleteConfirm()
	ShowDetails(gaps, questions, methodology string)

	SaveFile(name string, data []byte) error
	ApplyTheme(theme string)
	Notify(msg string)
}
