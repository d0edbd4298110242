package validator

import "time"

// Timings records how long each step of a check took, in the order the steps ran
type Timings []Timing

func (t *Timings) Add(step string, d time.Duration) {
	*t = append(*t, Timing{Label: step, Duration: d})
}

// Total is the time spent in all steps together
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, ti := range t {
		total += ti.Duration
	}

	return total
}

type Timing struct {
	Label    string        `json:"step"`
	Duration time.Duration `json:"duration"`
}
