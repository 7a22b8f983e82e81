package subtitle

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Effect is a set of text styling flags.
type Effect uint8

const (
	EffectBold Effect = 1 << iota
	EffectItalic
	EffectUnderline
)

var allEffects = []Effect{EffectBold, EffectItalic, EffectUnderline}

func (e Effect) Has(f Effect) bool {
	return e&f == f
}

func (e Effect) String() string {
	var names []string
	if e.Has(EffectBold) {
		names = append(names, "bold")
	}
	if e.Has(EffectItalic) {
		names = append(names, "italic")
	}
	if e.Has(EffectUnderline) {
		names = append(names, "underline")
	}
	return strings.Join(names, "+")
}

// Run is a stretch of text sharing one set of effects. A newline inside
// Text is a line break.
type Run struct {
	Text    string
	Effects Effect
}

// markers of the internal dialect, longest first
var markupMarkers = []struct {
	marker string
	effect Effect
}{
	{"**", EffectBold},
	{"*", EffectItalic},
	{"_", EffectUnderline},
}

func markerFor(e Effect) string {
	for _, m := range markupMarkers {
		if m.effect == e {
			return m.marker
		}
	}
	return ""
}

// ParseMarkup splits internal dialect text into styled runs. A marker only
// opens when its closing counterpart appears later in the text.
func ParseMarkup(text string) []Run {
	var (
		runs    []Run
		current Effect
		buf     strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, Run{Text: buf.String(), Effects: current})
			buf.Reset()
		}
	}

	for i := 0; i < len(text); {
		matched := false
		for _, m := range markupMarkers {
			if !strings.HasPrefix(text[i:], m.marker) {
				continue
			}
			end := i + len(m.marker)
			switch {
			case current.Has(m.effect):
				flush()
				current &^= m.effect
				i = end
				matched = true
			case opensMarker(text, i, m.marker):
				flush()
				current |= m.effect
				i = end
				matched = true
			}
			break
		}
		if matched {
			continue
		}
		buf.WriteByte(text[i])
		i++
	}
	flush()

	return runs
}

func opensMarker(text string, i int, marker string) bool {
	rest := text[i+len(marker):]
	if rest == "" || !strings.Contains(rest, marker) {
		return false
	}
	if marker == "_" && i > 0 {
		// underscores inside identifiers stay literal
		prev := rune(text[i-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	return true
}

// repairRuns moves whitespace off the inner edges of styled runs so that it
// belongs to the effects shared by both neighbours, then merges runs with
// equal effects. "hey, " italic followed by "you" becomes "hey," italic and
// " you" plain.
func repairRuns(runs []Run) []Run {
	type segment struct {
		text    string
		effects Effect
		space   bool
	}

	var segs []segment
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if r.Effects == 0 {
			segs = append(segs, segment{text: r.Text})
			continue
		}
		rest := strings.TrimLeftFunc(r.Text, unicode.IsSpace)
		lead := r.Text[:len(r.Text)-len(rest)]
		core := strings.TrimRightFunc(rest, unicode.IsSpace)
		trail := rest[len(core):]

		if lead != "" {
			segs = append(segs, segment{text: lead, space: true})
		}
		if core != "" {
			segs = append(segs, segment{text: core, effects: r.Effects})
		}
		if trail != "" {
			segs = append(segs, segment{text: trail, space: true})
		}
	}

	for i := range segs {
		if !segs[i].space {
			continue
		}
		var left, right Effect
		for j := i - 1; j >= 0; j-- {
			if !segs[j].space {
				left = segs[j].effects
				break
			}
		}
		for j := i + 1; j < len(segs); j++ {
			if !segs[j].space {
				right = segs[j].effects
				break
			}
		}
		segs[i].effects = left & right
	}

	out := make([]Run, 0, len(segs))
	for _, s := range segs {
		if n := len(out); n > 0 && out[n-1].Effects == s.effects {
			out[n-1].Text += s.text
			continue
		}
		out = append(out, Run{Text: s.text, Effects: s.effects})
	}
	return out
}

// runWriter receives a properly nested stream of effect boundaries and text.
type runWriter interface {
	open(e Effect)
	close(e Effect)
	text(s string)
}

func writeRuns(w runWriter, runs []Run) {
	var stack []Effect
	for _, r := range repairRuns(runs) {
		cut := len(stack)
		for i, e := range stack {
			if !r.Effects.Has(e) {
				cut = i
				break
			}
		}
		for j := len(stack) - 1; j >= cut; j-- {
			w.close(stack[j])
		}
		stack = stack[:cut]

		for _, e := range allEffects {
			if r.Effects.Has(e) && !containsEffect(stack, e) {
				w.open(e)
				stack = append(stack, e)
			}
		}
		w.text(r.Text)
	}
	for j := len(stack) - 1; j >= 0; j-- {
		w.close(stack[j])
	}
}

func containsEffect(stack []Effect, e Effect) bool {
	for _, s := range stack {
		if s == e {
			return true
		}
	}
	return false
}

// tagWriter renders runs as flat text with paired open/close tags.
type tagWriter struct {
	sb      strings.Builder
	tags    map[Effect][2]string
	escaper func(string) string
}

func (w *tagWriter) open(e Effect)  { w.sb.WriteString(w.tags[e][0]) }
func (w *tagWriter) close(e Effect) { w.sb.WriteString(w.tags[e][1]) }

func (w *tagWriter) text(s string) {
	if w.escaper != nil {
		s = w.escaper(s)
	}
	w.sb.WriteString(s)
}

func renderRuns(runs []Run, tags map[Effect][2]string, escaper func(string) string) string {
	w := &tagWriter{tags: tags, escaper: escaper}
	writeRuns(w, runs)
	return w.sb.String()
}

var (
	markupTags = map[Effect][2]string{
		EffectBold:      {"**", "**"},
		EffectItalic:    {"*", "*"},
		EffectUnderline: {"_", "_"},
	}
	htmlTags = map[Effect][2]string{
		EffectBold:      {"<b>", "</b>"},
		EffectItalic:    {"<i>", "</i>"},
		EffectUnderline: {"<u>", "</u>"},
	}
	ssaTags = map[Effect][2]string{
		EffectBold:      {`{\b1}`, `{\b0}`},
		EffectItalic:    {`{\i1}`, `{\i0}`},
		EffectUnderline: {`{\u1}`, `{\u0}`},
	}
)

// FormatMarkup renders runs in the internal dialect.
func FormatMarkup(runs []Run) string {
	return renderRuns(runs, markupTags, nil)
}

// NormalizeMarkup re-renders internal text with whitespace moved off the
// inner edges of markers.
func NormalizeMarkup(text string) string {
	return FormatMarkup(ParseMarkup(text))
}

// StripMarkup drops every marker and keeps the text.
func StripMarkup(text string) string {
	var sb strings.Builder
	for _, r := range ParseMarkup(text) {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// MarkupToHTML renders internal text with <b>, <i> and <u> tags.
func MarkupToHTML(text string) string {
	return renderRuns(ParseMarkup(text), htmlTags, nil)
}

var cueEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// markupToCueHTML is MarkupToHTML with the text escaped, as cue payloads need.
func markupToCueHTML(text string) string {
	return renderRuns(ParseMarkup(text), htmlTags, cueEscaper.Replace)
}

// HTMLToMarkup converts HTML-ish caption text to the internal dialect.
// <b>/<strong>, <i>/<em> and <u> become markers, <br> becomes a newline,
// any other tag is dropped with its content kept and entities are unescaped.
func HTMLToMarkup(text string) string {
	return FormatMarkup(htmlRuns(text))
}

func htmlRuns(text string) []Run {
	var (
		runs   []Run
		counts = map[Effect]int{}
	)

	current := func() Effect {
		var e Effect
		for eff, n := range counts {
			if n > 0 {
				e |= eff
			}
		}
		return e
	}

	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				runs = append(runs, Run{Text: string(z.Raw())})
			}
			return runs
		case html.TextToken:
			runs = append(runs, Run{Text: string(z.Text()), Effects: current()})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				runs = append(runs, Run{Text: "\n", Effects: current()})
				continue
			}
			if e := htmlEffect(string(name)); e != 0 && tt == html.StartTagToken {
				counts[e]++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if e := htmlEffect(string(name)); e != 0 && counts[e] > 0 {
				counts[e]--
			}
		}
	}
}

func htmlEffect(tag string) Effect {
	switch tag {
	case "b", "strong":
		return EffectBold
	case "i", "em":
		return EffectItalic
	case "u":
		return EffectUnderline
	}
	return 0
}

// ssaTextEscaper keeps literal braces out of override blocks. SSA dialogue
// lines cannot break, so newlines become spaces.
var ssaTextEscaper = strings.NewReplacer("{", `\{`, "}", `\}`, "\n", " ")

// MarkupToSSA renders internal text with SSA override codes.
func MarkupToSSA(text string) string {
	return renderRuns(ParseMarkup(text), ssaTags, ssaTextEscaper.Replace)
}

var (
	ssaBlockRegex = regexp.MustCompile(`\\[{}]|\{[^}]*\}`)
	ssaTagRegex   = regexp.MustCompile(`\\([biu])(\d+)`)
	ssaBreaks     = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ")
)

// SSAToMarkup converts SSA dialogue text to the internal dialect. Bold,
// italic and underline override codes become markers; every other override
// block is dropped. \{ and \} are literal braces.
func SSAToMarkup(text string) string {
	var (
		runs    []Run
		current Effect
		last    int
	)

	for _, loc := range ssaBlockRegex.FindAllStringIndex(text, -1) {
		if text[loc[0]] == '\\' {
			// escaped brace
			literal := ssaBreaks.Replace(text[last:loc[0]]) + text[loc[0]+1:loc[1]]
			runs = append(runs, Run{Text: literal, Effects: current})
			last = loc[1]
			continue
		}
		if loc[0] > last {
			runs = append(runs, Run{Text: ssaBreaks.Replace(text[last:loc[0]]), Effects: current})
		}
		for _, tag := range ssaTagRegex.FindAllStringSubmatch(text[loc[0]:loc[1]], -1) {
			var e Effect
			switch tag[1] {
			case "b":
				e = EffectBold
			case "i":
				e = EffectItalic
			case "u":
				e = EffectUnderline
			}
			if n, _ := strconv.Atoi(tag[2]); n == 0 {
				current &^= e
			} else {
				current |= e
			}
		}
		last = loc[1]
	}
	if last < len(text) {
		runs = append(runs, Run{Text: ssaBreaks.Replace(text[last:]), Effects: current})
	}

	return FormatMarkup(runs)
}

var intraLineSpace = regexp.MustCompile(`[^\S\n]+`)

// collapseLines collapses runs of intra-line whitespace to one space and
// trims every line, keeping the line breaks.
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(intraLineSpace.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
