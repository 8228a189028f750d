package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/go-playground/validator/v10"
)

// Проверка, что RequestValidator удовлетворяет интерфейсу RequestValidator.
var _ ports.RequestValidator = (*RequestValidator)(nil)

// ErrInvalidRequest — базовая (sentinel error) ошибка валидации запроса.
var ErrInvalidRequest = errors.New("order request validation failed")

// Ограничения имени клиента.
const (
	ClientNameMin = 2
	ClientNameMax = 80
)

// Сообщения для покупателя.
const (
	msgNameEmpty   = "Veuillez saisir votre nom avant le téléchargement."
	msgNameShort   = "Le nom doit contenir au moins 2 caractères."
	msgNameLong    = "Le nom est trop long (maximum 80 caractères)."
	msgNameCharset = "Le nom contient des caractères non autorisés."
)

var clientNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ'\- ]+$`)

// FieldError — ошибка конкретного поля с сообщением для пользователя.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Unwrap — любая FieldError является ErrInvalidRequest.
func (e *FieldError) Unwrap() error { return ErrInvalidRequest }

// RequestValidator — валидация запроса заказа (теги go-playground/validator + правила имени).
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator — конструктор RequestValidator.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках — имена полей как в JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate — проверяет запрос и нормализует строковые поля (пробелы по краям).
// requireClient — имя клиента обязательно (документ, e-mail).
func (r *RequestValidator) Validate(_ context.Context, req *domain.OrderRequest, requireClient bool) error {
	if req == nil {
		return fmt.Errorf("%w: запрос не может быть nil", ErrInvalidRequest)
	}
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.Receiver = strings.TrimSpace(req.Receiver)

	if err := r.v.Struct(req); err != nil {
		return translate(err)
	}
	if requireClient {
		if msg := ClientNameProblem(req.ClientName); msg != "" {
			return &FieldError{Field: "client_name", Message: msg}
		}
	}
	return nil
}

// ClientNameProblem — сообщение о проблеме с именем клиента, "" если имя корректно.
func ClientNameProblem(name string) string {
	cleaned := strings.TrimSpace(name)
	n := utf8.RuneCountInString(cleaned)
	switch {
	case n == 0:
		return msgNameEmpty
	case n < ClientNameMin:
		return msgNameShort
	case n > ClientNameMax:
		return msgNameLong
	case !clientNamePattern.MatchString(cleaned):
		return msgNameCharset
	}
	return ""
}

// translate — первая ошибка валидатора в виде FieldError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "OrderRequest.")
	switch fe.Tag() {
	case "email":
		return &FieldError{Field: field, Message: "Adresse e-mail invalide."}
	case "max":
		return &FieldError{Field: field, Message: "Valeur trop longue (maximum " + fe.Param() + ")."}
	case "min":
		return &FieldError{Field: field, Message: "Valeur trop petite (minimum " + fe.Param() + ")."}
	default:
		return &FieldError{Field: field, Message: "Valeur invalide (" + fe.Tag() + ")."}
	}
}
