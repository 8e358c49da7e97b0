package domain

import "strings"

// TransferKind discriminates the routing variant of a transfer.
type TransferKind string

const (
	TransferKindDomestic      TransferKind = "domestic"
	TransferKindInternational TransferKind = "international"
)

// IsValid reports whether k is a known kind.
func (k TransferKind) IsValid() bool {
	return k == TransferKindDomestic || k == TransferKindInternational
}

// Routing carries the bank routing details that apply to one transfer kind.
type Routing interface {
	Kind() TransferKind
	validate(v *ValidationError)
}

// DomesticRouting holds the optional routing details of a domestic transfer.
type DomesticRouting struct {
	BankAddress   string
	BranchCode    string
	RoutingNumber string
}

// Kind implements Routing.
func (DomesticRouting) Kind() TransferKind { return TransferKindDomestic }

func (r DomesticRouting) validate(v *ValidationError) {
	if r.RoutingNumber != "" && !routingNumberRegex.MatchString(r.RoutingNumber) {
		v.Add("routing_number", "must be 9 digits")
	}
}

// InternationalRouting holds the cross-border routing details. SWIFT and
// Country are required, IBAN is checked when present.
type InternationalRouting struct {
	SWIFT       string
	IBAN        string
	Country     string
	BankAddress string
	BranchCode  string
}

// Kind implements Routing.
func (InternationalRouting) Kind() TransferKind { return TransferKindInternational }

func (r InternationalRouting) validate(v *ValidationError) {
	if strings.TrimSpace(r.SWIFT) == "" {
		v.Add("swift", "is required for international transfers")
	} else if err := ValidateSWIFT(r.SWIFT); err != nil {
		v.Add("swift", err.Error())
	}

	if strings.TrimSpace(r.Country) == "" {
		v.Add("country", "is required for international transfers")
	} else if err := ValidateCountry(r.Country); err != nil {
		v.Add("country", err.Error())
	}

	if strings.TrimSpace(r.IBAN) != "" {
		if err := ValidateIBAN(r.IBAN); err != nil {
			v.Add("iban", err.Error())
		}
	}
}

// BankAddressOf returns the bank address carried by either routing variant.
func BankAddressOf(r Routing) string {
	switch rt := r.(type) {
	case DomesticRouting:
		return rt.BankAddress
	case InternationalRouting:
		return rt.BankAddress
	}
	return ""
}
