package enums

import "fmt"

// PrincipalKind distinguishes the two account types sharing the auth
// machinery: farm owners and their employees.
type PrincipalKind string

const (
	PrincipalKindFarmer   PrincipalKind = "farmer"
	PrincipalKindEmployee PrincipalKind = "employee"
)

var validPrincipalKinds = []PrincipalKind{
	PrincipalKindFarmer,
	PrincipalKindEmployee,
}

// IsValid reports whether the value matches the canonical principal kind enum.
func (p PrincipalKind) IsValid() bool {
	for _, candidate := range validPrincipalKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalKind converts the raw string to PrincipalKind.
func ParsePrincipalKind(value string) (PrincipalKind, error) {
	for _, candidate := range validPrincipalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal kind %q", value)
}
