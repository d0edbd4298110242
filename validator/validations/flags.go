package validations

import "strings"

const (
	// Validation Flags, these flags represent successful validation steps. A probe walks them in order and stops at
	// the first one that fails.
	FValid       Flag = 1 << iota
	FSyntax      Flag = 1 << iota
	FMXLookup    Flag = 1 << iota
	FHostConnect Flag = 1 << iota
	FValidRCPT   Flag = 1 << iota
)

type Flag uint8

// String returns a comma separated list of the flag names that are set
func (f Flag) String() string {
	return strings.Join(f.AsStringSlice(), ",")
}

// AsStringSlice returns the names of the flags that are set, in bit order
func (f Flag) AsStringSlice() []string {
	var result = make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		bit := Flag(1 << i)
		if f&bit == 0 {
			continue
		}

		result = append(result, toString(bit))
	}

	return result
}

func toString(f Flag) string {
	switch f {
	case FValid:
		return "valid"
	case FSyntax:
		return "syntax"
	case FMXLookup:
		return "lookup"
	case FHostConnect:
		return "connect"
	case FValidRCPT:
		return "rcpt"
	}

	return "unknown"
}
