package password

import "strings"

// MinLength is the minimum accepted password length in bytes.
const MinLength = 8

// symbols is the fixed set accepted as the "symbol" character class.
const symbols = "!@#$%^&*()-_=+[]{}|;:'\",.<>/?`~"

// Reason classifies why a password failed validation. Reasons are checked
// in declaration order so the caller can relay one actionable message.
type Reason uint8

const (
	// ReasonTooShort is an exported constant or variable used by the authentication engine.
	ReasonTooShort Reason = iota
	// ReasonNoLowercase is an exported constant or variable used by the authentication engine.
	ReasonNoLowercase
	// ReasonNoUppercase is an exported constant or variable used by the authentication engine.
	ReasonNoUppercase
	// ReasonNoDigit is an exported constant or variable used by the authentication engine.
	ReasonNoDigit
	// ReasonNoSymbol is an exported constant or variable used by the authentication engine.
	ReasonNoSymbol
)

func (r Reason) String() string {
	switch r {
	case ReasonTooShort:
		return "password must be at least 8 characters"
	case ReasonNoLowercase:
		return "password must contain a lowercase letter"
	case ReasonNoUppercase:
		return "password must contain an uppercase letter"
	case ReasonNoDigit:
		return "password must contain a digit"
	case ReasonNoSymbol:
		return "password must contain a symbol"
	default:
		return "password rejected"
	}
}

// WeaknessError reports the highest-priority policy violation found.
type WeaknessError struct {
	Reason Reason
}

func (e *WeaknessError) Error() string {
	return e.Reason.String()
}

// Validate checks password strength. It returns nil for acceptable
// passwords and a *[WeaknessError] naming the first failed check
// otherwise. Length is checked before character classes.
func Validate(password string) error {
	if len(password) < MinLength {
		return &WeaknessError{Reason: ReasonTooShort}
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(symbols, c):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return &WeaknessError{Reason: ReasonNoLowercase}
	case !hasUpper:
		return &WeaknessError{Reason: ReasonNoUppercase}
	case !hasDigit:
		return &WeaknessError{Reason: ReasonNoDigit}
	case !hasSymbol:
		return &WeaknessError{Reason: ReasonNoSymbol}
	}

	return nil
}
