// Package credentials keeps the saved login credential on disk.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/gachastat/internal/apperr"
	"github.com/okian/gachastat/internal/domain/model"
	"github.com/okian/gachastat/pkg/logger"
)

// FileName is the credential file name inside the data directory.
const FileName = "auth.cred"

const filePerm = 0o600

// FileStore persists a single credential as JSON.
type FileStore struct {
	path   string
	logger logger.Logger
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, logger: logger.Get().Named("credentials")}
}

// Path returns the credential file location.
func (s *FileStore) Path() string { return s.path }

// Save replaces the stored credential. The write goes through a temporary
// file so a crash never leaves a truncated credential behind.
func (s *FileStore) Save(ctx context.Context, cred model.Credential) error {
	const op = "credentials.save"

	data, err := json.Marshal(cred)
	if err != nil {
		return apperr.WrapKind(op, apperr.ErrSerialization, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, FileName+".*.tmp")
	if err != nil {
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperr.WrapKind(op, apperr.ErrIO, err)
	}

	s.logger.Debug(ctx, "credential saved", logger.String("path", s.path))
	return nil
}

// Load returns the stored credential, or nil when none is saved. A file that
// does not decode is treated as absent.
func (s *FileStore) Load(ctx context.Context) (*model.Credential, error) {
	const op = "credentials.load"

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.WrapKind(op, apperr.ErrIO, err)
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		s.logger.Warn(ctx, "ignoring unreadable credential file",
			logger.String("path", s.path), logger.Error(err))
		return nil, nil
	}
	return &cred, nil
}
