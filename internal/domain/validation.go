package domain

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall  = errors.New("amount below minimum allowed")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidSWIFT    = errors.New("invalid SWIFT/BIC code")
	ErrInvalidIBAN     = errors.New("invalid IBAN")
	ErrInvalidCountry  = errors.New("invalid country code")
	ErrAmountPrecision = errors.New("amount has too many decimal places")
)

// Validation constants
const (
	MaxTransferAmount  = "1000000000000" // 1 trillion
	MinTransferAmount  = "0.01"
	MoneyScale         = 2 // NUMERIC(20,2)
	MaxReferenceLength = 140
	MaxNameLength      = 255
	DefaultCurrency    = "USD"
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
}

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	swiftRegex         = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	ibanRegex          = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	countryRegex       = regexp.MustCompile(`^[A-Z]{2}$`)
	routingNumberRegex = regexp.MustCompile(`^[0-9]{9}$`)
)

// FieldError describes one invalid or missing request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field problem found in a request.
type ValidationError struct {
	Fields []FieldError
}

// Add records a field problem.
func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Required records field as missing when value is blank.
func (v *ValidationError) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

// Err returns v when it holds at least one field problem.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrValidation) match a *ValidationError.
func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransferRequest is the validated shape of a transfer creation request.
type TransferRequest struct {
	Recipient    Recipient
	Routing      Routing
	Amount       decimal.Decimal
	Currency     string
	Category     TransferCategory
	TransferDate time.Time
	Reference    string
}

// Normalize fills defaults and canonicalises codes in place.
func (r *TransferRequest) Normalize() {
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if r.Category == "" {
		r.Category = TransferCategoryPersonal
	}
	if r.Routing == nil {
		r.Routing = DomesticRouting{}
	}
	if ir, ok := r.Routing.(InternationalRouting); ok {
		ir.SWIFT = strings.ToUpper(strings.TrimSpace(ir.SWIFT))
		ir.IBAN = strings.ToUpper(strings.ReplaceAll(ir.IBAN, " ", ""))
		ir.Country = strings.ToUpper(strings.TrimSpace(ir.Country))
		r.Routing = ir
	}
	r.Recipient.Email = strings.TrimSpace(r.Recipient.Email)
}

// Validate checks every field and reports all problems at once.
func (r *TransferRequest) Validate() error {
	v := &ValidationError{}

	v.Required("recipient_name", r.Recipient.Name)
	v.Required("recipient_account", r.Recipient.AccountNumber)
	v.Required("recipient_bank", r.Recipient.BankName)
	if len(r.Recipient.Name) > MaxNameLength {
		v.Add("recipient_name", fmt.Sprintf("exceeds %d characters", MaxNameLength))
	}
	if r.Recipient.Email != "" {
		if err := ValidateEmail(r.Recipient.Email); err != nil {
			v.Add("recipient_email", err.Error())
		}
	}

	if err := ValidateAmount(r.Amount); err != nil {
		v.Add("amount", err.Error())
	}
	if err := ValidateCurrency(r.Currency); err != nil {
		v.Add("currency", err.Error())
	}
	if !r.Category.IsValid() {
		v.Add("transfer_type", "must be Personal or Business")
	}
	if r.TransferDate.IsZero() {
		v.Add("transfer_date", "is required")
	}
	if len(r.Reference) > MaxReferenceLength {
		v.Add("reference", fmt.Sprintf("exceeds %d characters", MaxReferenceLength))
	}

	if r.Routing != nil {
		r.Routing.validate(v)
	}

	return v.Err()
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates transfer amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinTransferAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinTransferAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransferAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransferAmount)
	}

	if !HasMoneyScale(amount) {
		return fmt.Errorf("%w: at most %d allowed", ErrAmountPrecision, MoneyScale)
	}

	return nil
}

// HasMoneyScale reports whether d fits a money column without rounding.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateSWIFT checks the 8 or 11 character BIC layout.
func ValidateSWIFT(code string) error {
	if !swiftRegex.MatchString(strings.ToUpper(strings.TrimSpace(code))) {
		return ErrInvalidSWIFT
	}
	return nil
}

// ValidateCountry accepts ISO 3166 alpha-2 shaped codes.
func ValidateCountry(code string) error {
	if !countryRegex.MatchString(strings.ToUpper(strings.TrimSpace(code))) {
		return ErrInvalidCountry
	}
	return nil
}

// ValidateIBAN checks layout and the mod-97 checksum.
func ValidateIBAN(iban string) error {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if !ibanRegex.MatchString(iban) {
		return ErrInvalidIBAN
	}

	rearranged := iban[4:] + iban[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			digits.WriteString(fmt.Sprintf("%d", r-'A'+10))
			continue
		}
		digits.WriteRune(r)
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok || new(big.Int).Mod(n, big.NewInt(97)).Int64() != 1 {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidIBAN)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
