package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

const defaultPager = "less -FRSX"

// pagerCommand picks GENIEBLOG_PAGER, then PAGER. "cat" or "none" disables
// paging.
func pagerCommand() string {
	p := strings.TrimSpace(os.Getenv("GENIEBLOG_PAGER"))
	if p == "" {
		p = strings.TrimSpace(os.Getenv("PAGER"))
	}
	if p == "" {
		p = defaultPager
	}
	if p == "cat" || p == "none" {
		return ""
	}
	return p
}

// withPager renders into a buffer and sends it through the pager only when
// out is a terminal and the text is taller than the screen.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	pager := pagerCommand()
	if _, height, err := term.GetSize(int(outFile.Fd())); pager == "" || err != nil || bytes.Count(buf.Bytes(), []byte("\n")) < height {
		_, err := buf.WriteTo(out)
		return err
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdin = &buf
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	}
	if err := cmd.Run(); err != nil {
		// pager missing or failed to start: fall back to plain output
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			_, werr := buf.WriteTo(out)
			return werr
		}
		return err
	}
	return nil
}
