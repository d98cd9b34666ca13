package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roach88/strata/internal/ir"
)

// WriteGraph persists every revision of every declaration in g as a new
// build. Writing a graph whose hash is already stored returns the existing
// build unchanged.
func (s *Store) WriteGraph(ctx context.Context, g *ir.Graph) (Build, error) {
	hash := ir.GraphHash(g)
	existing, err := s.buildByHash(ctx, hash)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Build{}, fmt.Errorf("write graph: %w", err)
	}

	axisJSON, err := marshalAxis(g.Axis.Versions())
	if err != nil {
		return Build{}, fmt.Errorf("write graph: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Build{}, fmt.Errorf("write graph: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&seq); err != nil {
		return Build{}, fmt.Errorf("write graph: next seq: %w", err)
	}

	b := Build{
		ID:        uuid.NewString(),
		Seq:       seq,
		IRVersion: ir.IRVersion,
		Axis:      g.Axis.Versions(),
		GraphHash: hash,
		Nodes:     len(g.Nodes),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds (id, seq, ir_version, axis, graph_hash, node_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Seq, b.IRVersion, axisJSON, b.GraphHash, b.Nodes)
	if err != nil {
		return Build{}, fmt.Errorf("write graph: insert build: %w", err)
	}

	for ord, n := range g.Nodes {
		if err := writeNode(ctx, tx, g.Axis, b.ID, ord, n); err != nil {
			return Build{}, fmt.Errorf("write graph: %s: %w", n.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Build{}, fmt.Errorf("write graph: commit: %w", err)
	}

	log.Debug().
		Str("build", b.ID).
		Int64("seq", b.Seq).
		Int("nodes", b.Nodes).
		Msg("build persisted")

	return b, nil
}

func writeNode(ctx context.Context, tx *sql.Tx, axis *ir.Axis, buildID string, ord int, n *ir.Node) error {
	intervals := n.Timeline.Intervals()
	for i, e := range n.Timeline.Entries() {
		content, err := marshalContent(e.Value)
		if err != nil {
			return err
		}
		sinceIdx, _ := axis.Index(intervals[i].Since)

		var until sql.NullString
		var untilIdx sql.NullInt64
		if !intervals[i].IsOpen() {
			idx, _ := axis.Index(intervals[i].Until)
			until = sql.NullString{String: string(intervals[i].Until), Valid: true}
			untilIdx = sql.NullInt64{Int64: int64(idx), Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO revisions
			(build_id, ord, name, kind, top_level, since, since_idx, until, until_idx, hash, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			buildID,
			ord,
			string(n.Name),
			string(n.Kind),
			n.TopLevel,
			string(intervals[i].Since),
			sinceIdx,
			until,
			untilIdx,
			ir.DeclarationHash(e.Value),
			content,
		)
		if err != nil {
			return fmt.Errorf("insert revision %s: %w", intervals[i].Since, err)
		}
	}
	return nil
}
