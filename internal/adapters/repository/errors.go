package repository

import (
	"errors"
	"fmt"

	"github.com/okian/gachastat/internal/apperr"
)

// Sentinel kinds for store errors. Every error returned by a Store also
// matches apperr.ErrStore.
var (
	ErrClosed = fmt.Errorf("%w: repository closed", apperr.ErrStore)
	ErrDecode = errors.New("stored batch is malformed")
)

func wrap(op string, err error) error {
	return apperr.WrapKind(op, apperr.ErrStore, err)
}
