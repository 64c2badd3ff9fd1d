package domain

import "unicode"

// MinPasswordLength is the shortest password that can score above weak.
const MinPasswordLength = 8

// PasswordStrength is the score shown by the strength meter.
type PasswordStrength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// Acceptable reports whether the password may be used for a new account.
func (s PasswordStrength) Acceptable() bool { return s.Score >= 3 }

// EvaluatePassword scores pw from 0 to 4.
func EvaluatePassword(pw string) PasswordStrength {
	var upper, lower, digit, symbol bool
	n := 0
	for _, r := range pw {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			symbol = true
		}
	}

	score := 0
	if n >= MinPasswordLength {
		score++
	}
	if upper && lower {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	if n < MinPasswordLength && score > 1 {
		score = 1
	}

	return PasswordStrength{Score: score, Label: strengthLabel(score)}
}

func strengthLabel(score int) string {
	switch score {
	case 4:
		return "strong"
	case 3:
		return "good"
	case 2:
		return "fair"
	default:
		return "weak"
	}
}
