package secrets

import "unicode"

// Strength classifies a password by length and character-class variety.
type Strength int

const (
	StrengthVeryWeak Strength = iota
	StrengthWeak
	StrengthMedium
	StrengthStrong
	StrengthVeryStrong
)

// String returns a human-readable label for the strength level.
func (s Strength) String() string {
	switch s {
	case StrengthVeryWeak:
		return "very weak"
	case StrengthWeak:
		return "weak"
	case StrengthMedium:
		return "medium"
	case StrengthStrong:
		return "strong"
	case StrengthVeryStrong:
		return "very strong"
	default:
		return "unknown"
	}
}

// PasswordStrength scores a password by how many character classes it uses
// (lowercase, uppercase, digit, special) and its length. Classes and length
// contribute independently, so two passwords with the same composition always
// receive the same label regardless of which classes they use.
func PasswordStrength(password string) Strength {
	if len(password) < 6 {
		return StrengthVeryWeak
	}

	var classes int
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if ok {
			classes++
		}
	}

	score := classes
	if len(password) >= 10 {
		score++
	}
	if len(password) >= 14 {
		score++
	}

	switch {
	case score <= 1:
		return StrengthVeryWeak
	case score == 2:
		return StrengthWeak
	case score == 3:
		return StrengthMedium
	case score == 4:
		return StrengthStrong
	default:
		return StrengthVeryStrong
	}
}
