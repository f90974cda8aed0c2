// Package lead validates consultation requests and hands them to a Submitter.
// No lead is stored; the default submitter only logs the request.
package lead

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSource labels leads that do not say which form they came from.
const DefaultSource = "contact"

// MinPhoneDigits is the length of a North American number without the country code.
const MinPhoneDigits = 10

// Provinces lists the provinces and territories a lead may be located in.
var Provinces = []string{
	"Alberta",
	"British Columbia",
	"Manitoba",
	"New Brunswick",
	"Newfoundland and Labrador",
	"Nova Scotia",
	"Ontario",
	"Prince Edward Island",
	"Quebec",
	"Saskatchewan",
	"Northwest Territories",
	"Nunavut",
	"Yukon",
}

// MortgageTypes lists the kinds of help a lead may ask for.
var MortgageTypes = []string{
	"First-Time Buyer",
	"Renewal",
	"Refinancing",
	"Investment Property",
	"Self-Employed",
	"Other",
}

// ErrInvalidLead wraps every validation failure.
var ErrInvalidLead = errors.New("invalid lead")

// Lead is a consultation request.
type Lead struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Province     string         `json:"province"`
	MortgageType string         `json:"mortgageType"`
	Message      string         `json:"message,omitempty"`
	Source       string         `json:"source,omitempty"`
	Summary      map[string]any `json:"summary,omitempty"`
}

// Receipt acknowledges a submitted lead.
type Receipt struct {
	Reference  string    `json:"reference"`
	ReceivedAt time.Time `json:"receivedAt"`
	Message    string    `json:"message"`
}

// Submitter accepts validated leads.
type Submitter interface {
	Submit(ctx context.Context, l Lead) (Receipt, error)
}

// Normalize trims whitespace, canonicalises the province and mortgage type
// spelling and fills in the default source.
func (l Lead) Normalize() Lead {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Message = strings.TrimSpace(l.Message)
	l.Source = strings.TrimSpace(l.Source)
	if l.Source == "" {
		l.Source = DefaultSource
	}
	if match, ok := lookup(Provinces, l.Province); ok {
		l.Province = match
	}
	if match, ok := lookup(MortgageTypes, l.MortgageType); ok {
		l.MortgageType = match
	}
	return l
}

// Validate checks the required fields of a lead.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLead)
	}
	if strings.TrimSpace(l.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidLead)
	}
	address, err := mail.ParseAddress(strings.TrimSpace(l.Email))
	if err != nil || address.Name != "" {
		return fmt.Errorf("%w: email %q is not a valid address", ErrInvalidLead, l.Email)
	}
	if digits := countDigits(l.Phone); digits < MinPhoneDigits {
		return fmt.Errorf("%w: phone must contain at least %d digits", ErrInvalidLead, MinPhoneDigits)
	}
	if _, ok := lookup(Provinces, l.Province); !ok {
		return fmt.Errorf("%w: unknown province %q", ErrInvalidLead, l.Province)
	}
	if _, ok := lookup(MortgageTypes, l.MortgageType); !ok {
		return fmt.Errorf("%w: unknown mortgage type %q", ErrInvalidLead, l.MortgageType)
	}
	return nil
}

func lookup(values []string, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	for _, value := range values {
		if strings.EqualFold(value, candidate) {
			return value, true
		}
	}
	return "", false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// LogSubmitter acknowledges leads by logging them.
type LogSubmitter struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewLogSubmitter creates a submitter that logs each lead at info level.
func NewLogSubmitter(logger *zap.Logger) *LogSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSubmitter{
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Submit validates and logs the lead, returning a receipt with a fresh reference.
func (s *LogSubmitter) Submit(ctx context.Context, l Lead) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	l = l.Normalize()
	if err := l.Validate(); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		Reference:  s.newID().String(),
		ReceivedAt: s.now().UTC(),
		Message:    "Request received. Expect a reply within 24 hours.",
	}

	s.logger.Info("lead captured",
		zap.String("op", "lead.Submit"),
		zap.String("reference", receipt.Reference),
		zap.String("source", l.Source),
		zap.String("province", l.Province),
		zap.String("mortgageType", l.MortgageType),
		zap.Bool("hasSummary", len(l.Summary) > 0),
	)
	return receipt, nil
}
