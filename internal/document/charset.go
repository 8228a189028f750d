package document

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// encodeFunc — подготовка текста под шрифт документа.
type encodeFunc func(string) string

// passthrough — для встроенного Unicode-шрифта текст не меняется.
func passthrough(s string) string { return s }

// toWindows1252 — для встроенных шрифтов PDF (Helvetica) текст кодируется в
// Windows-1252; символы вне кодировки отбрасываются. Знак € в Windows-1252 есть.
func toWindows1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		}
	}
	return b.String()
}
