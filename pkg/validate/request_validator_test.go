package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
)

func validRequest() *domain.OrderRequest {
	qty := 2.0
	return &domain.OrderRequest{
		ClientName: "  Jeanne d'Arc ",
		Note:       "Livraison samedi",
		Selections: []domain.Selection{{Name: "Miel", Selected: true, Quantity: &qty}},
	}
}

func TestValidate_OK(t *testing.T) {
	v := validate.NewRequestValidator()
	req := validRequest()

	if err := v.Validate(context.Background(), req, true); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if req.ClientName != "Jeanne d'Arc" {
		t.Fatalf("client name must be trimmed, got %q", req.ClientName)
	}
}

func TestValidate_ClientNameRules(t *testing.T) {
	tests := []struct {
		name    string
		client  string
		wantMsg string
	}{
		{"empty", "   ", "Veuillez saisir votre nom avant le téléchargement."},
		{"short", "A", "Le nom doit contenir au moins 2 caractères."},
		{"long", strings.Repeat("é", 81), "Le nom est trop long (maximum 80 caractères)."},
		{"digits", "Jeanne 2", "Le nom contient des caractères non autorisés."},
		{"accents_ok", "Hélène Lefèvre-Dupré", ""},
		{"max_len_ok", strings.Repeat("a", 80), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validate.ClientNameProblem(tt.client); got != tt.wantMsg {
				t.Fatalf("ClientNameProblem(%q) = %q, want %q", tt.client, got, tt.wantMsg)
			}
		})
	}
}

func TestValidate_ClientOptionalForPreview(t *testing.T) {
	v := validate.NewRequestValidator()
	req := validRequest()
	req.ClientName = ""

	if err := v.Validate(context.Background(), req, false); err != nil {
		t.Fatalf("preview must not require client name, got %v", err)
	}

	err := v.Validate(context.Background(), req, true)
	var fe *validate.FieldError
	if !errors.As(err, &fe) || fe.Field != "client_name" {
		t.Fatalf("expected client_name FieldError, got %v", err)
	}
	if !errors.Is(err, validate.ErrInvalidRequest) {
		t.Fatalf("FieldError must wrap ErrInvalidRequest")
	}
}

func TestValidate_StructTags(t *testing.T) {
	v := validate.NewRequestValidator()

	req := validRequest()
	req.Receiver = "not-an-email"
	err := v.Validate(context.Background(), req, true)
	var fe *validate.FieldError
	if !errors.As(err, &fe) || fe.Field != "receiver" {
		t.Fatalf("expected receiver FieldError, got %v", err)
	}

	req = validRequest()
	row := -1
	req.Selections[0].Row = &row
	if err := v.Validate(context.Background(), req, false); !errors.Is(err, validate.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for negative row, got %v", err)
	}

	if err := v.Validate(context.Background(), nil, false); !errors.Is(err, validate.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for nil request, got %v", err)
	}
}

func TestValidate_LongNoteAccepted(t *testing.T) {
	v := validate.NewRequestValidator()
	req := validRequest()
	req.Note = strings.Repeat("é", 5000)

	if err := v.Validate(context.Background(), req, true); err != nil {
		t.Fatalf("long note must be accepted (truncated later), got %v", err)
	}
	if len([]rune(req.Note)) != 5000 {
		t.Fatalf("validator must not modify the note")
	}
}
