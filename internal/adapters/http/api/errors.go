package api

import (
	"fmt"

	"github.com/okian/gachastat/internal/apperr"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = fmt.Errorf("%w: bad request", apperr.ErrUser)
)
