// Package charset turns subtitle file bytes of unknown encoding into UTF-8
// text.
package charset

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodings by the charset names the detector reports
var encodings = map[string]encoding.Encoding{
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"GB-18030":     simplifiedchinese.GB18030,
	"Big5":         traditionalchinese.Big5,
	"Shift_JIS":    japanese.ShiftJIS,
	"EUC-JP":       japanese.EUCJP,
	"ISO-2022-JP":  japanese.ISO2022JP,
	"EUC-KR":       korean.EUCKR,
	"ISO-8859-1":   charmap.ISO8859_1,
	"ISO-8859-2":   charmap.ISO8859_2,
	"ISO-8859-5":   charmap.ISO8859_5,
	"ISO-8859-7":   charmap.ISO8859_7,
	"ISO-8859-9":   charmap.ISO8859_9,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1256": charmap.Windows1256,
	"KOI8-R":       charmap.KOI8R,
}

// Decode strips a byte order mark and returns the content as UTF-8. Input
// that is already valid UTF-8 is returned unchanged; anything else goes
// through charset detection, falling back to windows-1252.
func Decode(raw []byte) (string, error) {
	r, enc := utfbom.Skip(bytes.NewReader(raw))
	switch enc {
	case utfbom.UTF16LittleEndian:
		return decodeWith(r, encodings["UTF-16LE"])
	case utfbom.UTF16BigEndian:
		return decodeWith(r, encodings["UTF-16BE"])
	case utfbom.UTF32LittleEndian, utfbom.UTF32BigEndian:
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if utf8.Valid(body) {
		return string(body), nil
	}

	return decodeWith(bytes.NewReader(body), Detect(body))
}

// Detect guesses the encoding of non UTF-8 content.
func Detect(body []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err == nil {
		if enc, ok := lookup(result.Charset); ok {
			return enc
		}
	}
	return charmap.Windows1252
}

func lookup(name string) (encoding.Encoding, bool) {
	if enc, ok := encodings[name]; ok {
		return enc, true
	}
	for known, enc := range encodings {
		if strings.EqualFold(known, name) {
			return enc, true
		}
	}
	return nil, false
}

func decodeWith(r io.Reader, enc encoding.Encoding) (string, error) {
	out, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	return string(out), nil
}
