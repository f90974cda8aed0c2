package lead

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validLead() Lead {
	return Lead{
		Name:         "Jordan Lee",
		Email:        "jordan@example.com",
		Phone:        "(416) 555-1234",
		Province:     "Ontario",
		MortgageType: "Renewal",
		Message:      "Renewing in the spring.",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Lead)
		expectErr bool
	}{
		{"Valid", func(*Lead) {}, false},
		{"Lowercase province", func(l *Lead) { l.Province = "british columbia" }, false},
		{"Territory", func(l *Lead) { l.Province = "Nunavut" }, false},
		{"Phone with country code", func(l *Lead) { l.Phone = "+1 604 555 0199" }, false},
		{"No message", func(l *Lead) { l.Message = "" }, false},
		{"Missing name", func(l *Lead) { l.Name = "  " }, true},
		{"Missing email", func(l *Lead) { l.Email = "" }, true},
		{"Malformed email", func(l *Lead) { l.Email = "jordan.example.com" }, true},
		{"Email with display name", func(l *Lead) { l.Email = "Jordan <jordan@example.com>" }, true},
		{"Short phone", func(l *Lead) { l.Phone = "555-1234" }, true},
		{"Unknown province", func(l *Lead) { l.Province = "Washington" }, true},
		{"Unknown mortgage type", func(l *Lead) { l.MortgageType = "Reverse" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLead()
			tt.modify(&l)
			err := l.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidLead) {
				t.Errorf("Validate() error should wrap ErrInvalidLead, got %v", err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	l := validLead()
	l.Name = "  Jordan Lee "
	l.Province = "prince edward island"
	l.MortgageType = "first-time buyer"

	normalized := l.Normalize()
	if normalized.Name != "Jordan Lee" {
		t.Errorf("Name = %q, expected trimmed", normalized.Name)
	}
	if normalized.Province != "Prince Edward Island" {
		t.Errorf("Province = %q, expected canonical spelling", normalized.Province)
	}
	if normalized.MortgageType != "First-Time Buyer" {
		t.Errorf("MortgageType = %q, expected canonical spelling", normalized.MortgageType)
	}
	if normalized.Source != DefaultSource {
		t.Errorf("Source = %q, expected %q", normalized.Source, DefaultSource)
	}
}

func TestLogSubmitterSubmit(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	reference := uuid.MustParse("6f1c2a9e-4b7d-4c1e-9a0b-2d3e4f5a6b7c")

	submitter := NewLogSubmitter(zap.NewNop())
	submitter.now = func() time.Time { return fixed }
	submitter.newID = func() uuid.UUID { return reference }

	receipt, err := submitter.Submit(context.Background(), validLead())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if receipt.Reference != reference.String() {
		t.Errorf("Reference = %s, expected %s", receipt.Reference, reference)
	}
	if !receipt.ReceivedAt.Equal(fixed) {
		t.Errorf("ReceivedAt = %v, expected %v", receipt.ReceivedAt, fixed)
	}
	if receipt.Message == "" {
		t.Errorf("expected acknowledgement message")
	}
}

func TestLogSubmitterUniqueReferences(t *testing.T) {
	submitter := NewLogSubmitter(nil)

	first, err := submitter.Submit(context.Background(), validLead())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	second, err := submitter.Submit(context.Background(), validLead())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if first.Reference == second.Reference {
		t.Errorf("references should differ, both were %s", first.Reference)
	}
	if _, err := uuid.Parse(first.Reference); err != nil {
		t.Errorf("reference %q is not a UUID: %v", first.Reference, err)
	}
}

func TestLogSubmitterRejectsInvalidLead(t *testing.T) {
	l := validLead()
	l.Email = "not-an-email"

	if _, err := NewLogSubmitter(zap.NewNop()).Submit(context.Background(), l); !errors.Is(err, ErrInvalidLead) {
		t.Errorf("expected ErrInvalidLead, got %v", err)
	}
}

func TestLogSubmitterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLogSubmitter(zap.NewNop()).Submit(ctx, validLead()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
