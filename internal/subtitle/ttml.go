package subtitle

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// TTML timed text. Paragraph timing is begin plus dur.
type TTML struct {
	NamedStyles bool
}

// DFXP timed text. Paragraph timing is absolute begin and end.
type DFXP struct {
	NamedStyles bool
}

const timedTextFamily = "TTML/DFXP"

const (
	ttmlNamespace          = "http://www.w3.org/ns/ttml"
	ttmlParameterNamespace = "http://www.w3.org/ns/ttml#parameter"
	ttmlStylingNamespace   = "http://www.w3.org/ns/ttml#styling"
)

// declarations written to every generated styling section
var timedTextStyles = []struct {
	id     string
	attr   string
	value  string
	effect Effect
}{
	{"strong", "tts:fontWeight", "bold", EffectBold},
	{"emphasis", "tts:fontStyle", "italic", EffectItalic},
	{"underlined", "tts:textDecoration", "underline", EffectUnderline},
}

var (
	controlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	timedTextBlanks  = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
)

func (TTML) Format() Format {
	return FormatTTML
}

func (TTML) Parse(text string) (Captions, error) {
	return parseTimedText(text, FormatTTML)
}

func (t TTML) Generate(captions []Caption, meta Metadata) (string, error) {
	return generateTimedText(captions, meta, FormatTTML, t.NamedStyles)
}

func (DFXP) Format() Format {
	return FormatDFXP
}

func (DFXP) Parse(text string) (Captions, error) {
	return parseTimedText(text, FormatDFXP)
}

func (d DFXP) Generate(captions []Caption, meta Metadata) (string, error) {
	return generateTimedText(captions, meta, FormatDFXP, d.NamedStyles)
}

func parseTimedText(text string, f Format) (Captions, error) {
	root, err := parseXMLTree([]byte(text))
	if err != nil {
		return nil, &ParseError{Family: timedTextFamily, Err: err}
	}
	body := root.find("body")
	if body == nil {
		return nil, &ParseError{
			Family: timedTextFamily,
			Err:    errors.New("document has no body element"),
		}
	}

	codec := TimeCodec{Format: f}
	if rate, ok := root.attr("tickRate"); ok {
		codec.TickRate, _ = strconv.Atoi(strings.TrimSpace(rate))
	}
	styles := newStyleMap(root)

	return mappedCaptions[*xmlNode]{
		items: body.findAll("p"),
		convert: func(_ int, p *xmlNode) Caption {
			start, end := paragraphTiming(p, codec)
			id, _ := p.attr("id")
			return Caption{
				StartTime: start,
				EndTime:   end,
				Text:      paragraphText(p, styles),
				ID:        id,
			}
		},
	}, nil
}

func paragraphTiming(p *xmlNode, codec TimeCodec) (float64, float64) {
	begin := codec.Decode(attrValue(p.Attrs, "begin"))
	if codec.Format == FormatDFXP {
		return begin, codec.Decode(attrValue(p.Attrs, "end"))
	}

	end := codec.Decode(attrValue(p.Attrs, "end"))
	if dur, ok := p.attr("dur"); ok {
		end = NoTime
		if d := codec.Decode(dur); isTime(d) {
			end = begin + d
		}
	}
	if !isTime(begin) || !isTime(end) {
		return NoTime, NoTime
	}
	return begin, end
}

// paragraphText turns a paragraph's content into the internal dialect.
// Elements carrying a known style become markers, <br/> becomes a newline,
// every other element keeps only its text.
func paragraphText(p *xmlNode, styles StyleMap) string {
	var (
		runs  []Run
		stack = []Effect{styleEffects(p.Attrs, styles)}
	)

	current := func() Effect {
		var e Effect
		for _, s := range stack {
			e |= s
		}
		return e
	}

	d := newXMLDecoder(p.Inner)
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "br" {
				runs = append(runs, Run{Text: "\n", Effects: current()})
			}
			stack = append(stack, styleEffects(t.Attr, styles))
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			runs = append(runs, Run{
				Text:    timedTextBlanks.Replace(string(t)),
				Effects: current(),
			})
		}
	}

	return strings.TrimSpace(collapseLines(FormatMarkup(runs)))
}

// styleEffects resolves inline styling attributes and named style
// references. Unknown style ids contribute nothing.
func styleEffects(attrs []xml.Attr, styles StyleMap) Effect {
	var e Effect
	for _, a := range attrs {
		if a.Name.Local != "style" {
			e |= attrEffect(a)
			continue
		}
		for _, id := range strings.Fields(a.Value) {
			if effects, ok := styles.Lookup(id); ok {
				e |= effects
			}
		}
	}
	return e
}

// attrEffect reads one styling attribute, inline or inside a style
// declaration.
func attrEffect(a xml.Attr) Effect {
	value := strings.TrimSpace(a.Value)
	switch a.Name.Local {
	case "fontWeight":
		if value == "bold" {
			return EffectBold
		}
	case "fontStyle":
		if value == "italic" {
			return EffectItalic
		}
	case "textDecoration":
		if slices.Contains(strings.Fields(value), "underline") {
			return EffectUnderline
		}
	}
	return 0
}

func generateTimedText(
	captions []Caption,
	meta Metadata,
	f Format,
	namedStyles bool,
) (string, error) {
	if strings.TrimSpace(meta.Language) == "" {
		return "", ErrMissingLanguage
	}

	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<tt xml:lang="`)
	writeXMLText(&sb, meta.Language)
	fmt.Fprintf(&sb, `" xmlns="%s" xmlns:ttp="%s" xmlns:tts="%s">`+"\n",
		ttmlNamespace, ttmlParameterNamespace, ttmlStylingNamespace)

	sb.WriteString("<head>\n<metadata/>\n<styling>\n")
	for _, s := range timedTextStyles {
		fmt.Fprintf(&sb, `<style xml:id="%s" %s="%s"/>`+"\n", s.id, s.attr, s.value)
	}
	sb.WriteString("</styling>\n<layout/>\n</head>\n")
	sb.WriteString(`<body region="subtitleArea">` + "\n<div>\n")

	for i, c := range captions {
		if !c.Renderable() {
			continue
		}
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("sub-%d", i)
		}

		sb.WriteString(`<p xml:id="`)
		writeXMLText(&sb, id)
		fmt.Fprintf(&sb, `" begin="%s"`, EncodeTime(c.StartTime, f))
		if f == FormatDFXP {
			fmt.Fprintf(&sb, ` end="%s">`, EncodeTime(c.EndTime, f))
		} else {
			fmt.Fprintf(&sb, ` dur="%s">`, EncodeTime(c.EndTime-c.StartTime, f))
		}

		text := strings.TrimSpace(controlCharRegex.ReplaceAllString(c.Text, ""))
		writeRuns(&spanWriter{sb: &sb, named: namedStyles}, ParseMarkup(text))
		sb.WriteString("</p>\n")
	}

	sb.WriteString("</div>\n</body>\n</tt>\n")
	return sb.String(), nil
}

// spanWriter renders runs as nested styled spans inside a paragraph.
type spanWriter struct {
	sb    *strings.Builder
	named bool
}

func (w *spanWriter) open(e Effect) {
	for _, s := range timedTextStyles {
		if s.effect != e {
			continue
		}
		if w.named {
			fmt.Fprintf(w.sb, `<span style="%s">`, s.id)
		} else {
			fmt.Fprintf(w.sb, `<span %s="%s">`, s.attr, s.value)
		}
	}
}

func (w *spanWriter) close(Effect) {
	w.sb.WriteString("</span>")
}

func (w *spanWriter) text(s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			w.sb.WriteString("<br/>")
		}
		writeXMLText(w.sb, line)
	}
}

func writeXMLText(sb *strings.Builder, s string) {
	_ = xml.EscapeText(sb, []byte(s))
}
