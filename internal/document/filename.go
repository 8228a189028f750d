package document

import (
	"regexp"
	"strings"
	"time"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{Nd}_-]+`)
	repeatedUnders  = regexp.MustCompile(`_+`)
)

// SanitizeFileName — часть имени файла из имени клиента: всё, кроме букв,
// цифр, «_» и «-», заменяется на «_»; пустой результат — "client".
func SanitizeFileName(name string) string {
	s := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	s = repeatedUnders.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "client"
	}
	return s
}

// FileName — "Commande_<клиент>_<ГГГГММДД>.pdf".
func FileName(client string, at time.Time) string {
	return "Commande_" + SanitizeFileName(client) + "_" + at.Format("20060102") + ".pdf"
}
