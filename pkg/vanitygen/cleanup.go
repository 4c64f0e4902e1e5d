package vanitygen

import (
	"fmt"

	"go.uber.org/multierr"
)

type release struct {
	name string
	fn   func() error
}

// releaseStack undoes acquisitions in reverse order. Every step runs even
// when an earlier one fails; the failures are combined.
type releaseStack struct {
	steps []release
}

func (s *releaseStack) push(name string, fn func() error) {
	s.steps = append(s.steps, release{name: name, fn: fn})
}

func (s *releaseStack) unwind() error {
	var errs error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.fn(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	s.steps = nil
	return errs
}
