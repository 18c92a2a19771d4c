// Package export renders analyzed products as JSON, CSV, or a
// multi-sheet Excel workbook.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Excel sheet names.
const (
	sheetSummary = "Ürün Özeti"
	sheetReviews = "Tüm Yorumlar"
	sheetAI      = "AI Analizi"
)

// Exporter writes report files under a single output directory.
type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

// New creates the output directory if needed.
func New(outputDir string, logger *slog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Exporter{
		outputDir: outputDir,
		logger:    logger.With("component", "exporter"),
	}, nil
}

// JSON writes the full-fidelity analysis documents.
func (e *Exporter) JSON(analyses []types.ProductAnalysis, name string) (string, error) {
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return "", &types.StorageError{Backend: "export", Key: name, Err: err}
	}
	path := filepath.Join(e.outputDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &types.StorageError{Backend: "export", Key: name, Err: err}
	}
	e.logger.Info("json export written", "path", path, "products", len(analyses))
	return path, nil
}

// CSV writes one summary row per product.
func (e *Exporter) CSV(analyses []types.ProductAnalysis, name string) (string, error) {
	if len(analyses) == 0 {
		return "", &types.StorageError{Backend: "export", Key: name, Err: types.ErrNoProducts}
	}

	headers := make([]string, 0)
	for k := range analyses[0].FlatRow() {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, a := range analyses {
		row := a.FlatRow()
		values := make([]string, len(headers))
		for i, h := range headers {
			values[i] = row[h]
		}
		if err := w.Write(values); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	path := filepath.Join(e.outputDir, name+".csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", &types.StorageError{Backend: "export", Key: name, Err: err}
	}
	e.logger.Info("csv export written", "path", path, "products", len(analyses))
	return path, nil
}

// Excel writes a three-sheet workbook: a product summary, every
// review with its provenance, and the AI analysis details.
func (e *Exporter) Excel(analyses []types.ProductAnalysis, name string) (string, error) {
	if len(analyses) == 0 {
		return "", &types.StorageError{Backend: "export", Key: name, Err: types.ErrNoProducts}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(sheetReviews); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(sheetAI); err != nil {
		return "", err
	}

	if err := e.writeSummarySheet(f, analyses); err != nil {
		return "", err
	}
	if err := e.writeReviewsSheet(f, analyses); err != nil {
		return "", err
	}
	if err := e.writeAISheet(f, analyses); err != nil {
		return "", err
	}

	path := filepath.Join(e.outputDir, name+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", &types.StorageError{Backend: "export", Key: name, Err: err}
	}
	e.logger.Info("excel export written", "path", path, "products", len(analyses))
	return path, nil
}

func (e *Exporter) writeSummarySheet(f *excelize.File, analyses []types.ProductAnalysis) error {
	headers := []string{
		"Ürün", "Marka", "Fiyat", "Fiyat Kategorisi", "Puan", "Puan Kategorisi",
		"Yorum Sayısı", "Gerçek Yorum", "Demo Yorum", "Duygu Skoru", "AI Önerisi",
	}
	if err := writeRowStrings(f, sheetSummary, 1, headers); err != nil {
		return err
	}
	for i, a := range analyses {
		row := []any{
			a.Basic.Title, a.Basic.Brand, a.Price.OriginalText, a.Price.Category,
			a.Rating.OriginalText, a.Rating.Category,
			a.Reviews.TotalReviews, a.Reviews.ScrapedReviews, a.Reviews.SyntheticReviews,
			a.Enrichment.SentimentScore, a.Enrichment.RecommendationScore,
		}
		if err := writeRow(f, sheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeReviewsSheet(f *excelize.File, analyses []types.ProductAnalysis) error {
	headers := []string{"Ürün", "Yorum", "Puan", "Yazar", "Tarih", "Kaynak"}
	if err := writeRowStrings(f, sheetReviews, 1, headers); err != nil {
		return err
	}
	rowNum := 2
	for _, a := range analyses {
		for _, r := range a.Raw.Reviews {
			rating := any("")
			if r.Rating != nil {
				rating = *r.Rating
			}
			row := []any{a.Basic.Title, r.Text, rating, r.Author, r.Date, string(r.Provenance)}
			if err := writeRow(f, sheetReviews, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

func (e *Exporter) writeAISheet(f *excelize.File, analyses []types.ProductAnalysis) error {
	headers := []string{
		"Ürün", "Duygu Özeti", "Temalar", "Artılar", "Eksiler",
		"Güçlü Yönler", "Zayıf Yönler", "Hedef Kitle", "Pazar Konumu", "Not",
	}
	if err := writeRowStrings(f, sheetAI, 1, headers); err != nil {
		return err
	}
	for i, a := range analyses {
		en := a.Enrichment
		row := []any{
			a.Basic.Title, en.SentimentSummary,
			strings.Join(en.Themes, " | "),
			strings.Join(en.Pros, " | "),
			strings.Join(en.Cons, " | "),
			strings.Join(en.Strengths, " | "),
			strings.Join(en.Weaknesses, " | "),
			en.TargetAudience, en.MarketPosition, en.Note,
		}
		if err := writeRow(f, sheetAI, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeRowStrings(f *excelize.File, sheet string, rowNum int, values []string) error {
	anys := make([]any, len(values))
	for i, v := range values {
		anys[i] = v
	}
	return writeRow(f, sheet, rowNum, anys)
}
