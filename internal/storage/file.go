package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// FileStore writes each analysis as a JSON document plus a one-row
// CSV summary under the data directory:
//
//	data/products/<id>.json
//	data/products/<id>_summary.csv
//	data/analysis/<comparison id>.json
type FileStore struct {
	dataDir string
	logger  *slog.Logger
}

// NewFileStore creates the directory layout.
func NewFileStore(dataDir string, logger *slog.Logger) (*FileStore, error) {
	for _, dir := range []string{
		filepath.Join(dataDir, "products"),
		filepath.Join(dataDir, "analysis"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &FileStore{
		dataDir: dataDir,
		logger:  logger.With("component", "file_store"),
	}, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) SaveProduct(id string, analysis *types.ProductAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	jsonPath := filepath.Join(s.dataDir, "products", id+".json")
	if err := writeAtomic(jsonPath, data); err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}

	if err := s.writeSummaryCSV(id, analysis); err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}

	s.logger.Debug("product saved", "id", id, "path", jsonPath)
	return nil
}

func (s *FileStore) writeSummaryCSV(id string, analysis *types.ProductAnalysis) error {
	row := analysis.FlatRow()
	headers := make([]string, 0, len(row))
	for k := range row {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = row[h]
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.Write(values); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, "products", id+"_summary.csv")
	return writeAtomic(path, []byte(b.String()))
}

func (s *FileStore) SaveComparison(id string, cmp *types.ComparisonResult) error {
	data, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	path := filepath.Join(s.dataDir, "analysis", id+".json")
	if err := writeAtomic(path, data); err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	s.logger.Debug("comparison saved", "id", id, "path", path)
	return nil
}

func (s *FileStore) GetProduct(id string) (*types.ProductAnalysis, error) {
	path := filepath.Join(s.dataDir, "products", id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &types.StorageError{Backend: s.Name(), Key: id, Err: types.ErrNotFound}
		}
		return nil, &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	var analysis types.ProductAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	return &analysis, nil
}

func (s *FileStore) ListProductIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, "products"))
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Key: "", Err: err}
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// writeAtomic writes via a temp file and rename so a crash mid-write
// never leaves a torn document.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
