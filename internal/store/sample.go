package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source tells how a sample's features were obtained.
type Source string

const (
	// SourceImage means the features were extracted from an uploaded image.
	SourceImage Source = "image"
	// SourceLandmarks means the client sent landmarks directly.
	SourceLandmarks Source = "landmarks"
)

// Sample is one labeled, normalized feature vector.
type Sample struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Features  []float64 `json:"features"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// SampleRepository provides CRUD operations for samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts a sample. ID and CreatedAt are filled in when empty.
func (r *SampleRepository) Create(sample *Sample) error {
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}

	features, err := json.Marshal(sample.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO samples (id, label, features, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		sample.ID, sample.Label, string(features), string(sample.Source), sample.CreatedAt,
	)
	return err
}

// GetByID retrieves a sample by its ID.
func (r *SampleRepository) GetByID(id string) (*Sample, error) {
	row := r.db.QueryRow(
		`SELECT id, label, features, source, created_at FROM samples WHERE id = ?`, id,
	)

	s, err := scanSample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns samples oldest first. An empty label lists every sample.
func (r *SampleRepository) List(label string) ([]Sample, error) {
	query := `SELECT id, label, features, source, created_at FROM samples`
	var args []any
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []Sample{}
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Counts returns the number of samples per label. Every label in labels is
// present, with zero if it has no samples; labels outside the list that
// still have samples are included as well.
func (r *SampleRepository) Counts(labels []string) (map[string]int, error) {
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l] = 0
	}

	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM samples GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// Delete removes a sample by its ID.
func (r *SampleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByLabel removes every sample of a label and returns how many were removed.
func (r *SampleRepository) DeleteByLabel(label string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM samples WHERE label = ?`, label)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (*Sample, error) {
	var s Sample
	var features, source string
	if err := row.Scan(&s.ID, &s.Label, &features, &source, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(features), &s.Features); err != nil {
		return nil, fmt.Errorf("decode features of %s: %w", s.ID, err)
	}
	s.Source = Source(source)
	return &s, nil
}
