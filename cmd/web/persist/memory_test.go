package persist

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Dynom/mxprobe/testutil"
	"github.com/Dynom/mxprobe/validator"
)

func testRecords(t *testing.T) []Record {
	t.Helper()

	rc := NewRecorder(&testutil.MockHasher{})
	results := []validator.Result{
		{Address: "john@example.org", Valid: true, Code: 250, MXHost: "mx.example.org"},
		{Address: "jane@example.org", Kind: validator.KindProbeProtocolRejected, Code: 550, MXHost: "mx.example.org"},
	}

	records := make([]Record, 0, len(results))
	for _, r := range results {
		rec, err := rc.Record(r)
		if err != nil {
			t.Fatalf("Record() Unexpected error while setting up test %s", err)
		}

		records = append(records, rec)
	}

	return records
}

func TestMemory_Range(t *testing.T) {
	testData := testRecords(t)

	t.Run("Range/All", func(t *testing.T) {
		ctx := context.Background()
		s := NewMemory()
		defer s.Close()

		for _, td := range testData {
			if err := s.Store(ctx, td); err != nil {
				t.Fatalf("s.Store() Unexpected error while setting up test %s", err)
			}
		}

		var collected int
		err := s.Range(ctx, func(r Record) error {
			collected++

			var match bool
			for _, td := range testData {
				if td.Domain == r.Domain && bytes.Equal(td.Recipient, r.Recipient) && td.Valid == r.Valid {
					match = true
					break
				}
			}

			if !match {
				t.Errorf("s.Range() didn't match the state. Got %+v", r)
			}

			return nil
		})

		if err != nil {
			t.Errorf("Unexpected error %s", err)
		}

		if collected != len(testData) {
			t.Errorf("Expected %d records, got %d", len(testData), collected)
		}
	})

	t.Run("Range/Abort", func(t *testing.T) {
		ctx := context.Background()
		s := NewMemory()
		defer s.Close()

		for _, td := range testData {
			if err := s.Store(ctx, td); err != nil {
				t.Fatalf("s.Store() Unexpected error while setting up test %s", err)
			}
		}

		var collected uint
		const want = 1
		stop := errors.New("stop")
		err := s.Range(ctx, func(r Record) error {
			collected++
			return stop // Range should cancel, when a CB returns a non-nil error
		})

		if collected != want {
			t.Errorf("Expected Range to stop after %d callbacks, instead %d were invoked", want, collected)
		}

		if !errors.Is(err, stop) {
			t.Errorf("Expected the callback error to be returned, got %v", err)
		}
	})

	t.Run("Range/Bad Value", func(t *testing.T) {
		s := NewMemory().(*Memory)
		defer s.Close()

		// Preparing data with a bad value type
		s.m.Store("john@example.org", "bar")

		var collected uint
		_ = s.Range(context.Background(), func(r Record) error {
			collected++
			return nil
		})

		if collected != 0 {
			t.Errorf("Expected no CB call with a bad value, got %d", collected)
		}
	})
}

func TestMemory_Store(t *testing.T) {
	ctxNormal := context.Background()
	ctxCanceled, ctxCancel := context.WithCancel(ctxNormal)
	ctxCancel()

	tests := []struct {
		name       string
		ctx        context.Context
		wantErr    bool
		wantStored bool
	}{
		{name: "Basic store", ctx: ctxNormal, wantStored: true},
		{name: "Canceled context", ctx: ctxCanceled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemory()
			defer s.Close()

			if err := s.Store(tt.ctx, testRecords(t)[0]); (err != nil) != tt.wantErr {
				t.Errorf("Store() error = %v, wantErr %v", err, tt.wantErr)
			}

			var collected uint
			_ = s.Range(context.Background(), func(r Record) error {
				collected++
				return nil
			})

			if got := collected > 0; tt.wantStored != got {
				t.Errorf("Expected the items to have been stored, want %t, got %t ", tt.wantStored, got)
			}
		})
	}
}

func TestMemory_StoreReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	r := testRecords(t)[1]
	_ = s.Store(ctx, r)

	r.Valid = true
	r.Kind = validator.KindNone
	_ = s.Store(ctx, r)

	var got []Record
	_ = s.Range(ctx, func(r Record) error {
		got = append(got, r)
		return nil
	})

	if len(got) != 1 || !got[0].Valid {
		t.Errorf("Expected a single, replaced, record. Got %+v", got)
	}
}
