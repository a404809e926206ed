package simulate

import (
	"errors"
	"fmt"
)

// ErrNoWindData signals an empty wind-speed series for the profile's region
// and horizon. The profile is skipped, not failed.
var ErrNoWindData = errors.New("no wind speed data")

// SkipError marks a profile outcome that is terminal but harmless to the
// batch: the profile is logged and skipped, siblings are unaffected.
type SkipError struct {
	ProfileID int64
	Reason    string
	Err       error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("profile %d skipped: %s", e.ProfileID, e.Reason)
}

func (e *SkipError) Unwrap() error { return e.Err }

// IsSkip reports whether err is a skip-with-diagnostic outcome.
func IsSkip(err error) bool {
	var s *SkipError
	return errors.As(err, &s)
}
