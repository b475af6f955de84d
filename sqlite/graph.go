package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/document"
)

// ReplaceEdges atomically swaps the document's outgoing edge set: the delete
// and the inserts commit or roll back together, so a crash mid-replace can
// never leave a half-replaced edge set.
func (s *Store) ReplaceEdges(ctx context.Context, fromID string, edges []document.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin edge replacement: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_relations WHERE from_document_id = ?", fromID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	for _, edge := range edges {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_relations (from_document_id, to_document_id, field_name, ord) VALUES (?, ?, ?, ?)",
			edge.FromID, edge.ToID, edge.Field, edge.Order); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert edge for %q: %w", edge.Field, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edge replacement: %w", err)
	}
	s.logger.Debug("Replaced relation edges",
		zap.String("from", fromID),
		zap.Int("edges", len(edges)))
	return nil
}

// EdgesFrom returns the ordered edges for one originating field.
func (s *Store) EdgesFrom(ctx context.Context, fromID, field string) ([]document.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT from_document_id, to_document_id, field_name, ord FROM document_relations WHERE from_document_id = ? AND field_name = ? ORDER BY ord",
		fromID, field)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	defer rows.Close()

	var edges []document.Edge
	for rows.Next() {
		var edge document.Edge
		if err := rows.Scan(&edge.FromID, &edge.ToID, &edge.Field, &edge.Order); err != nil {
			return nil, fmt.Errorf("failed to scan edge row: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// DeleteAllFor removes every edge where the document is either endpoint.
func (s *Store) DeleteAllFor(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM document_relations WHERE from_document_id = ? OR to_document_id = ?", id, id); err != nil {
		return fmt.Errorf("failed to delete edges: %w", err)
	}
	return nil
}
