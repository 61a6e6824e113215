package timecard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Store persists the whole log. Save replaces everything.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, recs []Record) error
	Path() string
}

var ErrBackend = errors.New("unknown timecard backend")

// OpenStore opens the named backend ("csv" or "sqlite") at file.
func OpenStore(ctx context.Context, backend, file string, log *zap.Logger) (Store, error) {
	switch backend {
	case "", "csv":
		return NewCSVStore(file, log), nil
	case "sqlite":
		return OpenSQLStore(ctx, file, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackend, backend)
	}
}

// CloseStore releases backends that hold a handle.
func CloseStore(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
