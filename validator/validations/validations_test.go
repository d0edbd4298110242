package validations

import (
	"math"
	"testing"
)

func TestValidations_HasFlag(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
		f    Flag
		want bool
	}{
		{want: true, name: "has flag", v: Validations(FValid), f: FValid},
		{want: true, name: "has flag (multiple)", v: Validations(FValid | FMXLookup), f: FValid},
		{want: true, name: "has flag (other)", v: Validations(FSyntax | FMXLookup), f: FMXLookup},

		{name: "doesn't have flag", v: 0, f: FValid},
		{name: "doesn't have flag, others set", v: Validations(FMXLookup), f: FValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.HasFlag(tt.f); got != tt.want {
				t.Errorf("HasFlag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidations_IsValid(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
		want bool
	}{
		{want: true, name: "mega valid", v: Validations(FValid)},
		{name: "default value", v: 0},
		{name: "some flags", v: Validations(FSyntax | FMXLookup)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidations_MarkAsInvalid(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
	}{
		{name: "Starting as valid", v: Validations(FValid)},
		{name: "Starting as invalid", v: 0},
		{name: "Various flags, invalid", v: Validations(FHostConnect | FMXLookup)},
		{name: "Various flags, valid", v: Validations(FValid | FHostConnect | FMXLookup | FValidRCPT)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.MarkAsInvalid()

			if got := v.IsValid(); got != false {
				t.Errorf("Expected v.MarkAsInvalid to always result in invalid validations %08b", v)
			}
		})
	}
}

func TestValidations_MarkAsValid(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
	}{
		{name: "Starting as valid", v: Validations(FValid)},
		{name: "Starting as invalid", v: 0},
		{name: "Various flags, invalid", v: Validations(FHostConnect | FMXLookup)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.MarkAsValid()

			if got := v.IsValid(); got != true {
				t.Errorf("Expected v.MarkAsValid to always result in valid validations %08b", v)
			}
		})
	}
}

func TestValidations_RemoveFlag(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
		f    Flag
		want Validations
	}{
		{name: "zero-values", v: 0, f: 0, want: 0},
		{name: "Clears single flag", v: Validations(FSyntax | FMXLookup), f: FSyntax, want: Validations(FMXLookup)},
		{name: "Doesn't clear non existing flag", v: Validations(FSyntax | FValid), f: FValidRCPT, want: Validations(FSyntax | FValid)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.RemoveFlag(tt.f); got != tt.want {
				t.Errorf("RemoveFlag() = %08b, want %08b", got, tt.want)
			}
		})
	}
}

func TestSizeExpectation(t *testing.T) {
	var v Validations

	v = math.MaxUint8
	if v+1 != 0 {
		t.Errorf("Expected v to be uint8, which should overflow to 0, \nv     = %+v, \nv + 1 = %+v", v, v+1)
	}
}

func TestValidations_String(t *testing.T) {
	tests := []struct {
		name string
		v    Validations
		want string
	}{
		{name: "nothing passed", v: 0, want: ""},
		{name: "stopped at the lookup", v: Validations(FSyntax), want: "syntax"},
		{name: "accepted", v: Validations(FValid | FSyntax | FMXLookup | FHostConnect | FValidRCPT), want: "valid,syntax,lookup,connect,rcpt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
