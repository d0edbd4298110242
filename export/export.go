package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Dynom/mxprobe/validator"
)

const (
	StatusValid   = "Valid"
	StatusInvalid = "Invalid"
)

var header = []string{"Email", "Status"}

// Stats holds the size of both partitions
type Stats struct {
	Valid   int `json:"valid" yaml:"valid"`
	Invalid int `json:"invalid" yaml:"invalid"`
}

func (s Stats) Total() int {
	return s.Valid + s.Invalid
}

// Status returns the label for a verdict
func Status(valid bool) string {
	if valid {
		return StatusValid
	}

	return StatusInvalid
}

// WriteCSV writes an "Email,Status" table, one row per result
func WriteCSV(w io.Writer, results []validator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		if err := cw.Write([]string{r.Address, Status(r.Valid)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to a file, truncating it if it exists
func WriteFile(path string, results []validator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %q %w", path, err)
	}

	if err := WriteCSV(f, results); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to write %q %w", path, err)
	}

	return f.Close()
}

// Partitioner is implemented by batch.ResultSet
type Partitioner interface {
	Partition() (accepted, rejected []validator.Result)
}

// WritePartitions writes accepted and rejected results to separate files. An empty path skips that partition.
func WritePartitions(p Partitioner, validPath, invalidPath string) (Stats, error) {
	accepted, rejected := p.Partition()
	stats := Stats{
		Valid:   len(accepted),
		Invalid: len(rejected),
	}

	if validPath != "" {
		if err := WriteFile(validPath, accepted); err != nil {
			return stats, err
		}
	}

	if invalidPath != "" {
		if err := WriteFile(invalidPath, rejected); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// Results adapts a plain slice to a Partitioner
type Results []validator.Result

func (rs Results) Partition() (accepted, rejected []validator.Result) {
	for _, r := range rs {
		if r.Valid {
			accepted = append(accepted, r)
		} else {
			rejected = append(rejected, r)
		}
	}

	return accepted, rejected
}
