// Package render turns blog Markdown into something a reader can look at:
// the inline HTML preview shown next to a generated post, a standalone HTML
// document for downloads, and styled terminal output.
package render

import (
	"regexp"
	"strings"
)

// Patterns follow browser regex semantics: '.' stops at \n, \r, U+2028 and
// U+2029, and '^' in multiline mode matches after any of them. (?m)^ only
// knows '\n', so line-anchored rules also accept one of the other
// terminators as group 1 and write it back unchanged.
const (
	lineChar  = `[^\n\r\x{2028}\x{2029}]`
	lineStart = `(?m)(^|[\r\x{2028}\x{2029}])`
	lineBreak = `(?:\r\n|[\n\r\x{2028}\x{2029}])`
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

func newRewrite(expr, repl string) rewrite {
	return rewrite{re: regexp.MustCompile(`(?i)` + expr), repl: repl}
}

func (r rewrite) all(s string) string {
	return r.re.ReplaceAllString(s, r.repl)
}

func (r rewrite) first(s string) string {
	m := r.re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	out := r.re.ExpandString([]byte(s[:m[0]]), r.repl, s, m)
	return string(out) + s[m[1]:]
}

// Order is significant: every rewrite runs on the output of the previous one.
var inlineRewrites = []rewrite{
	newRewrite(lineStart+`### (`+lineChar+`*)`, "${1}<h3>${2}</h3>"),
	newRewrite(lineStart+`## (`+lineChar+`*)`, "${1}<h2>${2}</h2>"),
	newRewrite(lineStart+`# (`+lineChar+`*)`, "${1}<h1>${2}</h1>"),
	newRewrite(`\*\*(`+lineChar+`*?)\*\*`, "<strong>${1}</strong>"),
	newRewrite(`\*(`+lineChar+`*?)\*`, "<em>${1}</em>"),
	newRewrite(`\[(`+lineChar+`*?)\]\((`+lineChar+`*?)\)`, `<a href="${2}" target="_blank">${1}</a>`),
	newRewrite(lineStart+`\* (`+lineChar+`*)`, "${1}<li>${2}</li>"),
	newRewrite(lineStart+`- (`+lineChar+`*)`, "${1}<li>${2}</li>"),
}

// listBlock matches a run of adjacent <li>…</li> lines.
var listBlock = newRewrite(
	`<li>`+lineChar+`*</li>(?:`+lineBreak+`<li>`+lineChar+`*</li>)*`,
	"<ul>${0}</ul>",
)

// Preview converts the restricted Markdown subset used by generated posts
// into an HTML fragment. It never fails: malformed input yields whatever the
// rewrites mechanically produce. Invalid UTF-8 sequences are replaced with
// U+FFFD before any rule runs, the same as a JSON request body would be.
//
// Known quirks are part of the output contract and are kept on purpose:
// unpaired asterisks still become <em> spans, only the first list block is
// wrapped in <ul>, blank lines open nested paragraphs inside the outer <p>,
// and rendering already rendered HTML is not idempotent.
func Preview(source string) string {
	html := strings.ToValidUTF8(source, "�")
	for _, rw := range inlineRewrites {
		html = rw.all(html)
	}
	html = listBlock.first(html)
	html = strings.ReplaceAll(html, "\n\n", "</p><p>")
	html = strings.ReplaceAll(html, "\n", "<br>")
	return "<p>" + html + "</p>"
}
