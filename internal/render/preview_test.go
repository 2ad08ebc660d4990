package render

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "<p></p>"},
		{"h1", "# Title", "<p><h1>Title</h1></p>"},
		{"bold and italic", "**bold** and *italic*", "<p><strong>bold</strong> and <em>italic</em></p>"},
		{"link", "[go](http://x.com)", `<p><a href="http://x.com" target="_blank">go</a></p>`},
		{"paragraphs nest inside outer wrap", "line1\n\nline2", "<p>line1</p><p>line2</p>"},
		{"single newline", "a\nb", "<p>a<br>b</p>"},
		{"header levels in order", "### a\n## b\n# c", "<p><h3>a</h3><br><h2>b</h2><br><h1>c</h1></p>"},
		{"header is greedy to end of line", "# a # b", "<p><h1>a # b</h1></p>"},
		{"four hashes untouched", "#### x", "<p>#### x</p>"},
		{"hash without space untouched", "#x", "<p>#x</p>"},
		{"empty header", "### ", "<p><h3></h3></p>"},
		{"header only at line start", "a # b", "<p>a # b</p>"},
		{"stray asterisks become em", "a * b * c", "<p>a <em> b </em> c</p>"},
		{"single asterisk stays", "2 * 3", "<p>2 * 3</p>"},
		{"empty bold", "****", "<p><strong></strong></p>"},
		{"bold does not cross lines", "**a\nb**", "<p><em></em>a<br>b<em></em></p>"},
		{"empty link", "[]()", `<p><a href="" target="_blank"></a></p>`},
		{"link text passes through", `[x](a"b)`, `<p><a href="a"b" target="_blank">x</a></p>`},
		{"dash list", "- a\n- b", "<p><ul><li>a</li><br><li>b</li></ul></p>"},
		{"list item needs space", "-a", "<p>-a</p>"},
		{"crlf keeps carriage return", "# T\r\nx", "<p><h1>T</h1>\r<br>x</p>"},
		{"three newlines", "a\n\n\nb", "<p>a</p><p><br>b</p>"},
		{"unicode text", "# Café ☕\n* ü", "<p><h1>Café ☕</h1><br><ul><li>ü</li></ul></p>"},
		{"uppercase li is wrapped", "<LI>x</LI>", "<p><ul><LI>x</LI></ul></p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Preview(tc.in))
		})
	}
}

func TestPreviewListWrapsOnce(t *testing.T) {
	got := Preview("* a\n* b")
	assert.Equal(t, "<p><ul><li>a</li><br><li>b</li></ul></p>", got)

	got = Preview("- a\n- b\n\ntext\n\n* c")
	assert.Equal(t, "<p><ul><li>a</li><br><li>b</li></ul></p><p>text</p><p><li>c</li></p>", got)
	assert.Equal(t, 1, strings.Count(got, "<ul>"))
	assert.Equal(t, 3, strings.Count(got, "<li>"))
}

func TestPreviewLineSeparators(t *testing.T) {
	// U+2028 ends a line for '.' and '^', but only '\n' becomes <br>.
	got := Preview("# a\u2028b")
	assert.Equal(t, "<p><h1>a</h1>\u2028b</p>", got)

	got = Preview("x\u2029# y")
	assert.Equal(t, "<p>x\u2029<h1>y</h1></p>", got)
}

func TestPreviewIsNotIdempotent(t *testing.T) {
	once := Preview("# T\n* a")
	assert.Equal(t, "<p><h1>T</h1><br><ul><li>a</li></ul></p>", once)

	twice := Preview(once)
	assert.NotEqual(t, once, twice)
	assert.Contains(t, twice, "<ul><ul>")
	assert.True(t, strings.HasPrefix(twice, "<p><p>"))
}

func TestPreviewConcurrent(t *testing.T) {
	const in = "# Title\n\n**bold** and *em*\n* one\n* two"
	want := Preview(in)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := Preview(in); got != want {
					t.Errorf("concurrent render mismatch: %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPreviewInvalidUTF8(t *testing.T) {
	assert.Equal(t, "<p>\uFFFD</p>", Preview("\xff"))
	assert.Equal(t, "<p><h1>a\uFFFDb</h1></p>", Preview("# a\xffb"))
	assert.Equal(t, "<p><em>\uFFFD</em></p>", Preview("*\xff*"))
}

func TestPreviewLinearOnUnclosedBrackets(t *testing.T) {
	for _, in := range []string{
		strings.Repeat("[", 40000),
		strings.Repeat("*", 40000),
		strings.Repeat("[a](", 10000),
		strings.Repeat("<li>x</li>\r", 5000) + "<li>",
	} {
		start := time.Now()
		out := Preview(in)
		assert.NotEmpty(t, out)
		assert.Less(t, time.Since(start), 2*time.Second, "input of %d bytes", len(in))
	}
}
