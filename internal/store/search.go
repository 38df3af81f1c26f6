package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/esdsl/internal/ir"
	"github.com/roach88/esdsl/internal/query"
	"github.com/roach88/esdsl/internal/querysql"
)

// Hit is one matching document.
type Hit struct {
	ID     string         `json:"_id"`
	Source map[string]any `json:"_source"`

	// MatchedQueries lists the names of named clauses the document
	// satisfied, in query order. Empty when the query names nothing.
	MatchedQueries []string `json:"matched_queries,omitempty"`
}

// SearchResult is the outcome of Search.
type SearchResult struct {
	// Total counts every match, ignoring from and size.
	Total int `json:"total"`

	Hits []Hit `json:"hits"`

	// QueryFingerprint identifies the canonical form of the executed query.
	QueryFingerprint string `json:"query_fingerprint"`
}

// Search evaluates req against the documents in index.
//
// Hits are ordered by id COLLATE BINARY ASC and paged by the request's
// from and size. A nil request matches all documents with default paging.
func (s *Store) Search(ctx context.Context, index string, req *query.Request) (*SearchResult, error) {
	if req == nil {
		req = query.NewRequest(nil)
	}
	q := req.Query()

	fingerprint, err := ir.Fingerprint(ir.DomainQuery, q.Source())
	if err != nil {
		return nil, err
	}

	where, whereArgs, err := s.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	named := querysql.NamedClauses(q)
	columns := []string{"id", "source"}
	var selectArgs []any
	for _, n := range named {
		sqlFrag, args, err := s.compiler.Compile(n.Clause)
		if err != nil {
			return nil, fmt.Errorf("compile named query %q: %w", n.Name, err)
		}
		columns = append(columns, fmt.Sprintf("COALESCE((%s), 0)", sqlFrag))
		selectArgs = append(selectArgs, args...)
	}

	var total int
	countArgs := append([]any{index}, whereArgs...)
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM documents WHERE index_name = ? AND (%s)", where),
		countArgs...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}

	result := &SearchResult{
		Total:            total,
		Hits:             []Hit{},
		QueryFingerprint: fingerprint,
	}

	limit := req.Limit()
	if limit == 0 || total == 0 {
		return result, nil
	}

	querySQL := fmt.Sprintf(`
		SELECT %s
		FROM documents
		WHERE index_name = ? AND (%s)
		ORDER BY id COLLATE BINARY ASC
		LIMIT ? OFFSET ?
	`, strings.Join(columns, ", "), where)

	args := make([]any, 0, len(selectArgs)+len(whereArgs)+3)
	args = append(args, selectArgs...)
	args = append(args, index)
	args = append(args, whereArgs...)
	args = append(args, limit, req.Offset())

	s.logger.Debug("search",
		"index", index,
		"query_fingerprint", fingerprint,
		"named_queries", len(named),
		"sql", where)

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer rows.Close()

	for rows.Next() {
		hit, err := scanHit(rows, named)
		if err != nil {
			return nil, err
		}
		result.Hits = append(result.Hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}

	return result, nil
}

// scanHit reads one row of id, source and one match flag per named clause.
func scanHit(rows *sql.Rows, named []querysql.Named) (Hit, error) {
	var (
		id     string
		source string
	)
	flags := make([]int64, len(named))
	dest := make([]any, 0, len(named)+2)
	dest = append(dest, &id, &source)
	for i := range flags {
		dest = append(dest, &flags[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return Hit{}, fmt.Errorf("scan hit: %w", err)
	}

	doc, err := ir.DecodeJSONObject([]byte(source))
	if err != nil {
		return Hit{}, fmt.Errorf("decode hit %s: %w", id, err)
	}

	hit := Hit{ID: id, Source: doc}
	for i, n := range named {
		if flags[i] != 0 {
			hit.MatchedQueries = append(hit.MatchedQueries, n.Name)
		}
	}
	hit.MatchedQueries = lo.Uniq(hit.MatchedQueries)
	return hit, nil
}
