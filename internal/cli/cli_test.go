package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/mithrel/genieblog/internal/config"
	"github.com/mithrel/genieblog/internal/wire"
	"github.com/mithrel/genieblog/pkg/api"
)

// fakeResearch serves canned answers for the three research services.
func fakeResearch(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gaps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"gaps":[{"statement":"Field data is scarce.","score":90,"reasoning":"Most studies are lab based."}]}`)
	})
	mux.HandleFunc("POST /questions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"main_question":"How do microbes adapt?","sub_questions":["Which taxa dominate?"]}}`)
	})
	mux.HandleFunc("POST /methodology", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"recommended_methodology":"Mixed methods"}}`)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// startTestServer runs the API over a temp sqlite DB and returns a config
// file that points the CLI at it.
func startTestServer(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "share"))
	t.Setenv("GEMINI_API_KEY", "")
	research := fakeResearch(t)

	serverData := filepath.Join(tmp, "server")
	v := viper.New()
	v.Set("data_dir", serverData)
	v.Set("secrets.keyring", false)
	v.Set("research.gaps_url", research.URL+"/gaps")
	v.Set("research.questions_url", research.URL+"/questions")
	v.Set("research.methodology_url", research.URL+"/methodology")
	if err := config.Load(context.Background(), v); err != nil {
		t.Fatalf("config load: %v", err)
	}
	app, err := wire.BuildApp(context.Background(), v)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	store, err := app.OpenStore(context.Background())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ts := httptest.NewServer(app.BuildServer(store).Router())
	t.Cleanup(ts.Close)

	return writeConfigTOML(t, filepath.Join(tmp, "client"), ts.URL)
}

func writeConfigTOML(t *testing.T, dir, apiURL string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"
api_url = "` + apiURL + `"

[secrets]
keyring = false

[progress]
step_delay = "0s"
reveal_delay = "0s"
`
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfg
}

func runCLI(t *testing.T, cfgPath string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	if cfgPath != "" {
		args = append([]string{"--config", cfgPath}, args...)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func listBlogs(t *testing.T, cfgPath string) []api.BlogSummary {
	t.Helper()
	out, errOut, err := runCLI(t, cfgPath, "", "list", "--output", "json")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, errOut)
	}
	var list api.BlogList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	return list.Blogs
}

func TestCLIBlogLifecycle(t *testing.T) {
	cfgPath := startTestServer(t)

	out, errOut, err := runCLI(t, cfgPath, "", "generate", "--no-tui", "soil", "microbiomes")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "# Research Blog: Soil Microbiomes") {
		t.Fatalf("unexpected post:\n%s", out)
	}
	if !strings.Contains(errOut, "[4/4] Blog Generation") || !strings.Contains(errOut, "Saved as blog 1") {
		t.Fatalf("missing progress output:\n%s", errOut)
	}

	blogs := listBlogs(t, cfgPath)
	if len(blogs) != 1 || blogs[0].Topic != "soil microbiomes" {
		t.Fatalf("list mismatch: %+v", blogs)
	}

	// no id: falls back to the blog just generated
	out, errOut, err = runCLI(t, cfgPath, "", "read", "--output", "markdown")
	if err != nil {
		t.Fatalf("read: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "Notably, Field data is scarce.") {
		t.Fatalf("read output:\n%s", out)
	}

	out, errOut, err = runCLI(t, cfgPath, "", "details", "1")
	if err != nil {
		t.Fatalf("details: %v\n%s", err, errOut)
	}
	for _, want := range []string{"Research Gaps:", "Field data is scarce.", "How do microbes adapt?", "Mixed methods"} {
		if !strings.Contains(out, want) {
			t.Fatalf("details missing %q:\n%s", want, out)
		}
	}

	dl := filepath.Join(t.TempDir(), "post.md")
	if _, errOut, err = runCLI(t, cfgPath, "", "download", "-o", dl); err != nil {
		t.Fatalf("download: %v\n%s", err, errOut)
	}
	data, err := os.ReadFile(dl)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Research Blog: Soil Microbiomes") {
		t.Fatalf("download content:\n%s", data)
	}

	if _, errOut, err = runCLI(t, cfgPath, "# Edited\n\nNew body\n", "edit", "1", "--file", "-"); err != nil {
		t.Fatalf("edit: %v\n%s", err, errOut)
	}
	if !strings.Contains(errOut, "Blog updated successfully!") {
		t.Fatalf("edit notice missing: %q", errOut)
	}
	out, _, err = runCLI(t, cfgPath, "", "read", "1", "--output", "markdown")
	if err != nil || out != "# Edited\n\nNew body\n" {
		t.Fatalf("read after edit: %v %q", err, out)
	}

	out, _, err = runCLI(t, cfgPath, "", "read", "1", "--output", "html", "--engine", "commonmark")
	if err != nil || !strings.Contains(out, "<h1>Edited</h1>") {
		t.Fatalf("html read: %v\n%s", err, out)
	}

	if _, errOut, err = runCLI(t, cfgPath, "", "delete", "1"); err == nil {
		t.Fatalf("delete without --yes on a non-terminal should fail; stderr=%q", errOut)
	}
	if _, errOut, err = runCLI(t, cfgPath, "", "delete", "--yes"); err != nil {
		t.Fatalf("delete: %v\n%s", err, errOut)
	}
	if got := listBlogs(t, cfgPath); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if _, _, err = runCLI(t, cfgPath, "", "read"); err == nil {
		t.Fatal("read with no current blog should fail")
	}
	if _, _, err = runCLI(t, cfgPath, "", "read", "1"); err == nil {
		t.Fatal("read of deleted blog should fail")
	}
}

func TestCLIGenerateSurfacesServerError(t *testing.T) {
	cfgPath := startTestServer(t)
	_, _, err := runCLI(t, cfgPath, "", "generate", "--no-tui", "   ")
	if err == nil || err.Error() != "Topic is required" {
		t.Fatalf("expected topic error, got %v", err)
	}
}

func TestCLIListMatch(t *testing.T) {
	cfgPath := startTestServer(t)
	for _, topic := range []string{"coral reefs", "battery recycling"} {
		if _, errOut, err := runCLI(t, cfgPath, "", "generate", "-q", topic); err != nil {
			t.Fatalf("generate %s: %v\n%s", topic, err, errOut)
		}
	}
	out, _, err := runCLI(t, cfgPath, "", "list", "--match", "batrec", "--noheaders")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "battery recycling") || strings.Contains(out, "coral") {
		t.Fatalf("match output:\n%s", out)
	}
	if _, _, err := runCLI(t, cfgPath, "", "list", "--output", "html"); err == nil {
		t.Fatal("html list should be rejected")
	}
}

func TestCLITheme(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1")
	steps := []struct {
		args []string
		want string
	}{
		{[]string{"theme"}, "dark"},
		{[]string{"theme", "toggle"}, "light"},
		{[]string{"theme"}, "light"},
		{[]string{"theme", "dark"}, "dark"},
	}
	for _, s := range steps {
		out, _, err := runCLI(t, cfgPath, "", s.args...)
		if err != nil {
			t.Fatalf("%v: %v", s.args, err)
		}
		if strings.TrimSpace(out) != s.want {
			t.Fatalf("%v: got %q want %q", s.args, out, s.want)
		}
	}
	if _, _, err := runCLI(t, cfgPath, "", "theme", "blue"); err == nil {
		t.Fatal("unknown theme should fail")
	}
}

func TestCLIRender(t *testing.T) {
	out, _, err := runCLI(t, "", "# Title\n**bold**", "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != "<p><h1>Title</h1><br><strong>bold</strong></p>" {
		t.Fatalf("render output: %q", out)
	}
	out, _, err = runCLI(t, "", "hi", "render", "--document", "--title", "A & B")
	if err != nil || !strings.Contains(out, "<title>A &amp; B</title>") {
		t.Fatalf("document: %v\n%s", err, out)
	}
}

func TestConfigGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "config.toml")
	if _, _, err := runCLI(t, "", "", "config", "generate", "-o", out); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[research]") {
		t.Fatalf("missing research table:\n%s", data)
	}
	if _, _, err := runCLI(t, "", "", "config", "generate", "-o", out); err == nil {
		t.Fatal("expected error when config exists")
	}
	stdout, _, err := runCLI(t, "", "", "config", "generate", "-o", out, "--update")
	if err != nil || !strings.Contains(stdout, "Config already up to date") {
		t.Fatalf("update: %v %q", err, stdout)
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir(), "http://127.0.0.1:1")
	out, _, err := runCLI(t, cfgPath, "", "--token", "hunter2", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "hunter2") || !strings.Contains(out, "auth.token = (set)") {
		t.Fatalf("token not masked:\n%s", out)
	}
	if !strings.Contains(out, fmt.Sprintf("api_url = %s", "http://127.0.0.1:1")) {
		t.Fatalf("api_url missing:\n%s", out)
	}
}
