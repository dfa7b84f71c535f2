package stats

import (
	"errors"
	"fmt"

	"github.com/okian/gachastat/internal/apperr"
)

// ErrInvalidRarity reports a draw whose rarity is outside the tracked tiers.
var ErrInvalidRarity = fmt.Errorf("%w: rarity out of range", apperr.ErrSerialization)

// TimestampParseError reports a draw timestamp that does not map to a
// calendar instant. It aborts the whole computation.
type TimestampParseError struct {
	Value int64
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("failed to parse timestamp: %d", e.Value)
}

// Is lets errors.Is match the boundary kind.
func (e *TimestampParseError) Is(target error) bool {
	return target == apperr.ErrTimestampParse
}

// IsTimestampParse reports whether err carries a TimestampParseError.
func IsTimestampParse(err error) (int64, bool) {
	var tpe *TimestampParseError
	if errors.As(err, &tpe) {
		return tpe.Value, true
	}
	return 0, false
}
