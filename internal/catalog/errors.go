// Package catalog — общие правила источников каталога: обязательные колонки,
// разбор табличных строк, ошибки загрузки и разрешение ссылок на изображения.
package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound — источник каталога отсутствует.
	ErrNotFound = errors.New("catalog source not found")
	// ErrInvalidStructure — источник есть, но в нём нет нужного листа/таблицы или колонок.
	ErrInvalidStructure = errors.New("catalog structure is invalid")
)

// Пользовательские сообщения.
const (
	notFoundMessage         = "Le fichier products.xlsx est introuvable. Vérifiez sa présence à la racine du projet."
	invalidStructurePrefix  = "Structure de données invalide: "
	unavailableMessage      = "Catalogue indisponible."
	missingColumnsMsgPrefix = "Colonnes manquantes: "
)

// MissingColumnsError — в источнике нет обязательных колонок (имена отсортированы).
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return missingColumnsMsgPrefix + strings.Join(e.Columns, ", ")
}

// Unwrap — MissingColumnsError является частным случаем ErrInvalidStructure.
func (e *MissingColumnsError) Unwrap() error { return ErrInvalidStructure }

// IsCatalogError — ошибка относится к загрузке каталога (фатальна для запроса).
func IsCatalogError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidStructure)
}

// UserMessage — сообщение для покупателя, различающее причину отказа.
func UserMessage(err error) string {
	var missing *MissingColumnsError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return notFoundMessage
	case errors.As(err, &missing):
		return invalidStructurePrefix + missing.Error()
	case errors.Is(err, ErrInvalidStructure):
		return invalidStructurePrefix + strings.TrimPrefix(err.Error(), ErrInvalidStructure.Error()+": ")
	default:
		return unavailableMessage
	}
}
