// Package export renders an analyzed batch as a CSV report, one row per
// practice contribution plus one summary row per transaction.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// Row is the CSV schema of the report.
type Row struct {
	Date         string `csv:"date"`
	Name         string `csv:"name"`
	Amount       string `csv:"amount"`
	Practice     string `csv:"practice"`
	Weight       string `csv:"weight"`
	PracticeDebt string `csv:"practice_debt"`
	SocietalDebt string `csv:"societal_debt"`
	Note         string `csv:"note"`
}

// Write renders the batch to w with the given delimiter.
func Write(w io.Writer, batch models.AnalyzedBatch, delimiter rune, includeHeaders bool) error {
	rows := buildRows(batch)

	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	safeWriter := gocsv.NewSafeCSVWriter(writer)

	if includeHeaders {
		if err := gocsv.MarshalCSV(&rows, safeWriter); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		return nil
	}
	if err := gocsv.MarshalCSVWithoutHeaders(&rows, safeWriter); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// WriteFile renders the batch to a file, creating parent directories as
// needed.
func WriteFile(path string, batch models.AnalyzedBatch, delimiter rune, includeHeaders bool, log logging.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	if err := Write(file, batch, delimiter, includeHeaders); err != nil {
		return err
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(batch.Transactions)},
	).Info("Wrote CSV report")

	return nil
}

func buildRows(batch models.AnalyzedBatch) []Row {
	var rows []Row
	for _, tx := range batch.Transactions {
		if len(tx.PracticeDebts) == 0 {
			rows = append(rows, Row{
				Date:         tx.Date,
				Name:         tx.Name,
				Amount:       tx.Amount.StringFixed(2),
				SocietalDebt: tx.SocietalDebt.StringFixed(2),
				Note:         tx.Information[models.ErrorInfoKey],
			})
			continue
		}

		practices := make([]string, 0, len(tx.PracticeDebts))
		for practice := range tx.PracticeDebts {
			practices = append(practices, practice)
		}
		sort.Strings(practices)

		for _, practice := range practices {
			weight := ""
			if w, ok := tx.PracticeWeights[practice]; ok {
				weight = w.StringFixed(0)
			}
			rows = append(rows, Row{
				Date:         tx.Date,
				Name:         tx.Name,
				Amount:       tx.Amount.StringFixed(2),
				Practice:     practice,
				Weight:       weight,
				PracticeDebt: tx.PracticeDebts[practice].StringFixed(2),
				SocietalDebt: tx.SocietalDebt.StringFixed(2),
				Note:         tx.Information[practice],
			})
		}
	}
	return rows
}
