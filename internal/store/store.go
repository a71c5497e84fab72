// Package store persists analyzed batches and loads the practice taxonomy.
// It sits outside the engine boundary: the engine emits an AnalyzedBatch and
// this package files it away keyed by user and creation time.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// Creation time embedded in the file name, nanosecond precision so two
// saves in the same second never collide.
const batchFilePattern = "batch-20060102-150405.000000000.yaml"

// BatchStore reads and writes analyzed batches under a data directory, one
// subdirectory per user.
type BatchStore struct {
	dir string
	log logging.Logger
	now func() time.Time
}

// NewBatchStore creates a store rooted at dir.
func NewBatchStore(dir string, log logging.Logger) *BatchStore {
	return &BatchStore{dir: dir, log: log, now: time.Now}
}

// SaveBatch persists an analyzed batch for a user, keyed by creation time.
func (s *BatchStore) SaveBatch(user string, batch models.AnalyzedBatch) error {
	createdAt := s.now().UTC()
	stored := models.StoredBatch{
		User:      user,
		CreatedAt: createdAt,
		Batch:     batch,
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshaling batch: %w", err)
	}

	userDir := filepath.Join(s.dir, user)
	if err := os.MkdirAll(userDir, 0750); err != nil {
		return fmt.Errorf("creating user directory: %w", err)
	}

	path := filepath.Join(userDir, createdAt.Format(batchFilePattern))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing batch file: %w", err)
	}

	s.log.WithFields(
		logging.Field{Key: logging.FieldUser, Value: user},
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(batch.Transactions)},
	).Info("Saved analyzed batch")

	return nil
}

// LoadLatest returns the transactions of the most recently saved batch for a
// user. Every returned transaction carries analyzed=true from its prior run,
// so a re-analysis short-circuits around the classifier. A user with no
// saved batches gets an empty slice, not an error.
func (s *BatchStore) LoadLatest(user string) ([]models.Transaction, error) {
	userDir := filepath.Join(s.dir, user)
	entries, err := os.ReadDir(userDir)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.WithField(logging.FieldUser, user).Debug("No stored batches for user")
			return []models.Transaction{}, nil
		}
		return nil, fmt.Errorf("reading user directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return []models.Transaction{}, nil
	}

	// File names embed the creation time, so lexical order is creation order.
	sort.Strings(names)
	path := filepath.Join(userDir, names[len(names)-1])

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file %s: %w", path, err)
	}

	var stored models.StoredBatch
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}

	return stored.Batch.Transactions, nil
}

// LoadPractices loads the practice taxonomy from a YAML file. A missing file
// yields an empty taxonomy rather than an error, matching the engine's view
// of practice names as opaque.
func LoadPractices(path string, log logging.Logger) ([]models.Practice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField(logging.FieldFile, path).Warn("Practices file not found, classifier will use free-form practice names")
			return []models.Practice{}, nil
		}
		return nil, fmt.Errorf("reading practices file: %w", err)
	}

	var doc struct {
		Practices []models.Practice `yaml:"practices"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing practices file: %w", err)
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Practices)},
	).Debug("Loaded practice taxonomy")

	return doc.Practices, nil
}
