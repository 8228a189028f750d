package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageResolver — приводит ссылку на изображение товара к пригодному виду.
// Root — каталог, относительно которого разрешаются относительные пути;
// Fallback — заглушка для пустых и несуществующих ссылок.
type ImageResolver struct {
	Root     string
	Fallback string
}

// Resolve — URL и data:image возвращаются как есть; существующий файл — абсолютным
// путём; всё остальное — заглушкой (или пустой строкой, если заглушки нет на диске).
func (r ImageResolver) Resolve(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return r.fallback()
	}
	for _, prefix := range []string{"http://", "https://", "data:image/"} {
		if strings.HasPrefix(value, prefix) {
			return value
		}
	}

	candidate := value
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.Root, candidate)
	}
	if abs, err := filepath.Abs(candidate); err == nil {
		candidate = abs
	}
	if isFile(candidate) {
		return filepath.ToSlash(candidate)
	}
	return r.fallback()
}

func (r ImageResolver) fallback() string {
	if r.Fallback == "" {
		return ""
	}
	path := r.Fallback
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if isFile(path) {
		return filepath.ToSlash(path)
	}
	return ""
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
