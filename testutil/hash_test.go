package testutil

import (
	"bytes"
	"testing"
)

func TestMockHasherReverse_Sum(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{name: "basic", input: []byte("abc"), want: []byte("cba")},
		{name: "single", input: []byte("a"), want: []byte("a")},
		{name: "empty", input: []byte{}, want: []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MockHasherReverse{}
			_, _ = s.Write(tt.input)

			if got := s.Sum(nil); !bytes.Equal(got, tt.want) {
				t.Errorf("Sum() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockHasher_Sum(t *testing.T) {
	s := &MockHasher{}
	_, _ = s.Write([]byte("john"))
	_, _ = s.Write([]byte(".doe"))

	if got := s.Sum([]byte("x:")); string(got) != "x:john.doe" {
		t.Errorf("Sum() = %q, want %q", got, "x:john.doe")
	}

	s.Reset()
	_, _ = s.Write([]byte("jane"))
	if got := s.Sum(nil); string(got) != "jane" {
		t.Errorf("Expected Reset to clear state, Sum() = %q", got)
	}

	if s.Size() != 4 {
		t.Errorf("Expected Size() to be 4, got %d", s.Size())
	}
}
