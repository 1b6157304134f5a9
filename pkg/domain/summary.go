package domain

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Summary is the outcome of one broadcast run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int

	errs *multierror.Error
}

// Record folds the result of a single delivery into the summary.
func (s *Summary) Record(dest Destination, err error) {
	s.Total++
	if err == nil {
		s.Succeeded++
		return
	}
	s.Failed++
	s.errs = multierror.Append(s.errs, fmt.Errorf("%s: %w", dest, err))
	s.errs.ErrorFormat = listFormat
}

// Err returns the failed deliveries as one error, or nil when everything was sent.
func (s *Summary) Err() error {
	return s.errs.ErrorOrNil()
}

func (s *Summary) ExitCode() int {
	if s.Failed == 0 {
		return 0
	}
	return 1
}

func listFormat(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
