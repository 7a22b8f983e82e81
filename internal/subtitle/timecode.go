package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TimeCodec converts between float seconds and one format's time text.
// TickRate only matters for the tree formats; zero means none declared.
type TimeCodec struct {
	Format   Format
	TickRate int
}

// DecodeTime returns the seconds encoded in text, or NoTime.
func DecodeTime(text string, f Format) float64 {
	return TimeCodec{Format: f}.Decode(text)
}

// EncodeTime returns the exact time text a generator for f emits.
func EncodeTime(seconds float64, f Format) string {
	return TimeCodec{Format: f}.Encode(seconds)
}

var (
	lineClockRegex = regexp.MustCompile(
		`^(?:(\d+):)?(\d{1,2}):(\d{1,2})(?:[,.:](\d*))?$`,
	)
	fullClockRegex  = regexp.MustCompile(`^(\d+):(\d+):(\d+)(?:\.(\d*))?$`)
	offsetTimeRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)(h|ms|m|s|f)$`)
)

func (c TimeCodec) Decode(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoTime
	}

	switch c.Format {
	case FormatTTML, FormatDFXP:
		return c.decodeTimeExpression(text)
	default:
		m := lineClockRegex.FindStringSubmatch(text)
		if m == nil {
			return NoTime
		}
		return boundClock(clockSeconds(m[1], m[2], m[3], m[4]))
	}
}

func (c TimeCodec) decodeTimeExpression(text string) float64 {
	if ticks, ok := strings.CutSuffix(text, "t"); ok {
		n, err := strconv.ParseUint(ticks, 10, 64)
		if err != nil || c.TickRate <= 0 {
			return NoTime
		}
		return boundClock(float64(n) / float64(c.TickRate))
	}

	if m := offsetTimeRegex.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return NoTime
		}
		switch m[2] {
		case "h":
			return boundClock(v * 3600)
		case "m":
			return boundClock(v * 60)
		case "s":
			return boundClock(v)
		case "ms":
			return boundClock(v / 1000)
		default:
			// frames need a frame rate, which is not tracked
			return NoTime
		}
	}

	m := fullClockRegex.FindStringSubmatch(text)
	if m == nil {
		return NoTime
	}
	return boundClock(clockSeconds(m[1], m[2], m[3], m[4]))
}

// clockSeconds reads a fractional group as decimal digits after the point,
// so "5" is half a second and a missing group is zero. Components are
// unsigned digit strings; one too large to read gives NoTime.
func clockSeconds(hours, minutes, seconds, fraction string) float64 {
	var total float64
	for _, part := range []struct {
		digits string
		scale  float64
	}{{hours, 3600}, {minutes, 60}, {seconds, 1}} {
		if part.digits == "" {
			continue
		}
		n, err := strconv.ParseUint(part.digits, 10, 64)
		if err != nil {
			return NoTime
		}
		total += float64(n) * part.scale
	}
	if total > MaxSubtitleTime {
		return NoTime
	}

	if fraction != "" {
		if f, err := strconv.ParseFloat("0."+fraction, 64); err == nil {
			total += f
		}
	}
	return total
}

func boundClock(seconds float64) float64 {
	if seconds > MaxSubtitleTime {
		return NoTime
	}
	return seconds
}

func (c TimeCodec) Encode(seconds float64) string {
	hours := int(math.Floor(seconds / 3600))
	minutes := int(math.Floor(floorMod(seconds, 3600) / 60))
	secs := int(floorMod(seconds, 60))

	switch c.Format {
	case FormatSRT, FormatVTT:
		if hours < 0 {
			hours = 99
		}
		millis := intMod(int(seconds*1000), 1000)
		sep := ","
		if c.Format == FormatVTT {
			sep = "."
		}
		return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, minutes, secs, sep, millis)

	case FormatSBV:
		if hours < 0 {
			hours = 9
		}
		millis := int(floorMod(seconds, 1) * 1000)
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, millis)

	case FormatSSA:
		if hours < 0 {
			hours = 9
		}
		centis := int(floorMod(seconds, 1) * 100)
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)

	default:
		if hours < 0 {
			hours = 99
		}
		centis := int(floorMod(seconds, 1) * 100)
		return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, secs, centis)
	}
}

// floorMod is modulo with the sign of the divisor.
func floorMod(a, b float64) float64 {
	return a - b*math.Floor(a/b)
}

func intMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
