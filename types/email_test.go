package types

import (
	"errors"
	"testing"
)

func Test_splitLocalAndDomain(t *testing.T) {
	type expect struct {
		local  string
		domain string
	}
	tests := []struct {
		input  string
		expect expect
	}{
		{input: "john@example.org", expect: expect{local: "john", domain: "example.org"}},
		{input: "john.doe@example.org", expect: expect{local: "john.doe", domain: "example.org"}},
		{input: "John.Doe@Example.ORG", expect: expect{local: "John.Doe", domain: "example.org"}},
		{input: "x@x", expect: expect{local: "x", domain: "x"}},
	}

	for _, test := range tests {
		d, err := splitLocalAndDomain(test.input)
		if err != nil || d.Local != test.expect.local || d.Domain != test.expect.domain {
			t.Errorf("Expected %+v instead it was %+v (%v)", test.expect, d, err)
		}
	}
}

func TestNewEmailParts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "john@example.org"},
		{name: "no separator", input: "john.example.org", wantErr: true},
		{name: "two separators", input: "john@doe@example.org", wantErr: true},
		{name: "missing local", input: "@example.org", wantErr: true},
		{name: "missing domain", input: "john@", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "only separator", input: "@", wantErr: true},
		{name: "line break in local", input: "x>\r\nDATA\r\n<y@good.com", wantErr: true},
		{name: "newline in domain", input: "john@example.org\n", wantErr: true},
		{name: "tab", input: "john\t@example.org", wantErr: true},
		{name: "nul", input: "john\x00@example.org", wantErr: true},
		{name: "delete", input: "john\x7f@example.org", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEmailParts(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEmailParts() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				if !errors.Is(err, ErrInvalidEmailAddress) {
					t.Errorf("NewEmailParts() error = %v, want %v", err, ErrInvalidEmailAddress)
				}

				if got != (EmailParts{}) {
					t.Errorf("NewEmailParts() = %+v, want zero value on error", got)
				}
			}
		})
	}
}

func TestNewEmailFromParts(t *testing.T) {
	got := NewEmailFromParts("john", "Example.org")
	if want := "john@Example.org"; got.Address != want {
		t.Errorf("NewEmailFromParts() Address = %q, want %q", got.Address, want)
	}

	if want := "example.org"; got.Domain != want {
		t.Errorf("NewEmailFromParts() Domain = %q, want %q", got.Domain, want)
	}
}
