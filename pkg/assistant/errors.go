package assistant

import (
	"errors"
	"strings"

	"github.com/barekit/orbitai/pkg/preflight"
)

var (
	// ErrEmptyMessage is returned by Submit for a blank message.
	ErrEmptyMessage = errors.New("message is required")
	// ErrConfigIncomplete is returned by Deploy when nothing has been collected to build a record from.
	ErrConfigIncomplete = errors.New("configuration not complete")
	// ErrInvalidConfig is returned by Deploy when the assembled record fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrPreflightFailed is returned by Deploy when a parent chain check fails.
	ErrPreflightFailed = errors.New("preflight checks failed")
)

// ValidationError carries the policy problems of a rejected record.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidConfig.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// PreflightError carries the report of a failed preflight run.
type PreflightError struct {
	Report *preflight.Report
}

func (e *PreflightError) Error() string {
	return ErrPreflightFailed.Error() + ": " + strings.Join(e.Report.Failures(), "; ")
}

func (e *PreflightError) Is(target error) bool {
	return target == ErrPreflightFailed
}
