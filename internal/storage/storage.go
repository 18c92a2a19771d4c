// Package storage persists product analyses and comparison results.
// The file backend is the default; MongoDB is optional and both can
// run fanned out behind MultiStore.
package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Store is the persistence capability.
type Store interface {
	SaveProduct(id string, analysis *types.ProductAnalysis) error
	SaveComparison(id string, cmp *types.ComparisonResult) error
	GetProduct(id string) (*types.ProductAnalysis, error)
	ListProductIDs() ([]string, error)
	Close() error
	Name() string
}

// Open builds the configured backend(s).
func Open(cfg config.Storage, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.DataDir, logger)
	case "mongo":
		return NewMongoStore(cfg, logger)
	case "both":
		fs, err := NewFileStore(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		ms, err := NewMongoStore(cfg, logger)
		if err != nil {
			_ = fs.Close()
			return nil, err
		}
		return NewMultiStore(fs, ms), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// MultiStore fans writes out to several stores. Reads come from the
// first store; write errors are joined so one failing backend does
// not hide the others.
type MultiStore struct {
	stores []Store
}

// NewMultiStore wraps the given stores.
func NewMultiStore(stores ...Store) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) Name() string { return "multi" }

func (m *MultiStore) SaveProduct(id string, analysis *types.ProductAnalysis) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.SaveProduct(id, analysis); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiStore) SaveComparison(id string, cmp *types.ComparisonResult) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.SaveComparison(id, cmp); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiStore) GetProduct(id string) (*types.ProductAnalysis, error) {
	return m.stores[0].GetProduct(id)
}

func (m *MultiStore) ListProductIDs() ([]string, error) {
	return m.stores[0].ListProductIDs()
}

func (m *MultiStore) Close() error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
