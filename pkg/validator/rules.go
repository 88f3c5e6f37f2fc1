package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MaxRunes limits the length in characters, not bytes.
func MaxRunes(field, value string, limit int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= limit },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", limit)},
	}
}

// ValidEmail accepts a bare address (no display name) with a non-empty local
// part and a domain that neither starts nor ends with a dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" || len(value) > 254 {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Name != "" || addr.Address != value {
				return false
			}
			local, domain, ok := strings.Cut(value, "@")
			return ok && local != "" && domain != "" &&
				!strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".") &&
				!strings.Contains(domain, "..")
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}
