package subtitle

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Reflower splits captions that are too long to read and wraps their text
// onto at most two lines. Styled and untimed captions are left as they are.
type Reflower struct {
	MaxCharsPerLine int
	MaxLines        int
	MaxDuration     float64
}

func NewReflower(maxCharsPerLine int) *Reflower {
	return &Reflower{
		MaxCharsPerLine: maxCharsPerLine,
		MaxLines:        2,   // most players show two lines
		MaxDuration:     7.0, // seconds
	}
}

func (r *Reflower) Reflow(captions []Caption) []Caption {
	if r.MaxCharsPerLine <= 0 {
		return captions
	}

	out := make([]Caption, 0, len(captions))
	for _, c := range captions {
		if !c.Renderable() || isStyled(c.Text) {
			out = append(out, c)
			continue
		}
		text := strings.Join(strings.Fields(c.Text), " ")
		if text == "" {
			out = append(out, c)
			continue
		}
		if r.needsSplit(text, c.EndTime-c.StartTime) {
			out = append(out, r.split(c, text)...)
			continue
		}
		c.Text = r.wrap(text)
		out = append(out, c)
	}
	return out
}

func isStyled(text string) bool {
	for _, run := range ParseMarkup(text) {
		if run.Effects != 0 {
			return true
		}
	}
	return false
}

func (r *Reflower) maxChars() int {
	lines := r.MaxLines
	if lines <= 0 {
		lines = 1
	}
	return r.MaxCharsPerLine * lines
}

func (r *Reflower) needsSplit(text string, duration float64) bool {
	if utf8.RuneCountInString(text) > r.maxChars() {
		return true
	}
	return r.MaxDuration > 0 && duration > r.MaxDuration
}

// split distributes words evenly across as many captions as the length
// and duration limits need. Each part gets a share of the original time
// span proportional to its length.
func (r *Reflower) split(c Caption, text string) []Caption {
	words := strings.Fields(text)
	total := c.EndTime - c.StartTime

	maxChars := r.maxChars()
	n := (utf8.RuneCountInString(text) + maxChars - 1) / maxChars
	if r.MaxDuration > 0 {
		if byDuration := int(total/r.MaxDuration) + 1; byDuration > n {
			n = byDuration
		}
	}
	n = max(1, min(n, len(words)))

	var (
		chunks []string
		length int
	)
	for chunk := range slices.Chunk(words, (len(words)+n-1)/n) {
		line := strings.Join(chunk, " ")
		chunks = append(chunks, line)
		length += utf8.RuneCountInString(line)
	}

	out := make([]Caption, 0, len(chunks))
	start, done := c.StartTime, 0
	for i, line := range chunks {
		done += utf8.RuneCountInString(line)
		finish := c.StartTime + total*float64(done)/float64(length)
		if i == len(chunks)-1 {
			finish = c.EndTime
		}

		part := c
		part.ID = ""
		part.StartTime = start
		part.EndTime = finish
		part.Text = r.wrap(line)
		out = append(out, part)

		start = finish
	}
	return out
}

// wrap breaks text into two lines at the word boundary closest to the
// middle when it does not fit on one line.
func (r *Reflower) wrap(text string) string {
	runes := utf8.RuneCountInString(text)
	if runes <= r.MaxCharsPerLine || r.MaxLines < 2 {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runes / 2
	best, bestDiff := 0, runes
	length := 0
	for i, word := range words[:len(words)-1] {
		length += utf8.RuneCountInString(word)
		if i > 0 {
			length++
		}
		if diff := abs(length - middle); diff < bestDiff {
			best, bestDiff = i+1, diff
		}
	}

	if best == 0 {
		return text
	}
	return strings.Join(words[:best], " ") + "\n" + strings.Join(words[best:], " ")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
