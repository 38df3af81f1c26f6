package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/esdsl/internal/ir"
)

// IDField is the document key holding an explicit id. It is stripped from
// the stored source.
const IDField = "_id"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Index stores doc under index and returns its id. The id comes from
// doc["_id"] when it is a non-empty string, otherwise from the store's
// IDGenerator. Indexing an existing id replaces the document.
func (s *Store) Index(ctx context.Context, index string, doc map[string]any) (string, error) {
	if index == "" {
		return "", fmt.Errorf("index name is required")
	}

	normalized, err := ir.Normalize(doc)
	if err != nil {
		return "", fmt.Errorf("normalize document: %w", err)
	}
	source := normalized.(map[string]any)

	var id string
	if raw, ok := source[IDField]; ok {
		str, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%s must be a string, got %T", IDField, raw)
		}
		id = str
		delete(source, IDField)
	}
	if id == "" {
		id = s.ids.Generate()
	}

	encoded, err := ir.MarshalSorted(source)
	if err != nil {
		return "", fmt.Errorf("marshal document %s: %w", id, err)
	}
	hash, err := ir.Fingerprint(ir.DomainDocument, source)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (index_name, id, source, content_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(index_name, id) DO UPDATE SET
			source = excluded.source,
			content_hash = excluded.content_hash
	`, index, id, string(encoded), hash)
	if err != nil {
		return "", fmt.Errorf("index document %s: %w", id, err)
	}

	s.logger.Debug("indexed document", "index", index, "id", id, "content_hash", hash)
	return id, nil
}

// Get returns the source of a document.
// Returns an error wrapping ErrNotFound if the document does not exist.
func (s *Store) Get(ctx context.Context, index, id string) (map[string]any, error) {
	var source string
	err := s.db.QueryRowContext(ctx,
		"SELECT source FROM documents WHERE index_name = ? AND id = ?", index, id,
	).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", index, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", index, id, err)
	}

	return ir.DecodeJSONObject([]byte(source))
}

// Delete removes a document.
// Returns an error wrapping ErrNotFound if the document does not exist.
func (s *Store) Delete(ctx context.Context, index, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE index_name = ? AND id = ?", index, id)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", index, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", index, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", index, id, ErrNotFound)
	}
	return nil
}

// Count returns the number of documents in index.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE index_name = ?", index,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	return n, nil
}
