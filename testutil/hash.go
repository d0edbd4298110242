package testutil

import "hash"

var (
	_ hash.Hash = &MockHasher{}
	_ hash.Hash = &MockHasherReverse{}
)

// MockHasherReverse "hashes" by reversing everything written since the last Reset
type MockHasherReverse struct {
	MockHasher
}

func (s *MockHasherReverse) Sum(b []byte) []byte {
	r := make([]byte, len(s.v))
	for i := range s.v {
		r[len(r)-1-i] = s.v[i]
	}

	return append(b, r...)
}

// MockHasher "hashes" by returning everything written since the last Reset, verbatim
type MockHasher struct {
	v []byte
}

func (s *MockHasher) Write(p []byte) (int, error) {
	s.v = append(s.v, p...)
	return len(p), nil
}

func (s *MockHasher) Sum(b []byte) []byte {
	return append(b, s.v...)
}

func (s *MockHasher) Reset() {
	s.v = s.v[:0]
}

func (s *MockHasher) Size() int {
	return len(s.v)
}

func (s *MockHasher) BlockSize() int {
	return 128
}
