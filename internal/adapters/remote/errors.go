package remote

import (
	"fmt"

	"github.com/okian/gachastat/internal/apperr"
)

// User-facing failures. Both match apperr.ErrUser.
var (
	ErrNotAuthenticated = fmt.Errorf("%w: not logged in", apperr.ErrUser)
	ErrLoginFailed      = fmt.Errorf("%w: login failed", apperr.ErrUser)
)
