package types

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmailAddress = errors.New("invalid e-mail address, expecting exactly one @ between a local and domain part")
)

// NewEmailParts decomposes an address into its local and domain part. Anything other than exactly one "@" with
// something on both sides is rejected.
func NewEmailParts(emailAddress string) (EmailParts, error) {
	p, err := splitLocalAndDomain(emailAddress)
	if err != nil {
		return EmailParts{}, err
	}

	return p, nil
}

// NewEmailFromParts assembles an address from its parts, it performs no validation
func NewEmailFromParts(local, domain string) EmailParts {
	return EmailParts{
		Address: local + "@" + domain,
		Local:   local,
		Domain:  strings.ToLower(domain),
	}
}

type EmailParts struct {
	Address string
	Local   string
	Domain  string
}

func splitLocalAndDomain(input string) (EmailParts, error) {
	if strings.Count(input, "@") != 1 {
		return EmailParts{}, ErrInvalidEmailAddress
	}

	// Control characters (CR and LF in particular) would end up on the SMTP wire
	for i := 0; i < len(input); i++ {
		if input[i] < 0x20 || input[i] == 0x7f {
			return EmailParts{}, ErrInvalidEmailAddress
		}
	}

	i := strings.IndexByte(input, '@')
	if 0 >= i || i >= len(input)-1 {
		return EmailParts{}, ErrInvalidEmailAddress
	}

	return EmailParts{
		Address: input,
		Local:   input[:i],
		Domain:  strings.ToLower(input[i+1:]),
	}, nil
}
