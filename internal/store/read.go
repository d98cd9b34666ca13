package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/strata/internal/ir"
)

// Build is one persisted graph.
type Build struct {
	ID        string       `json:"id" yaml:"id"`
	Seq       int64        `json:"seq" yaml:"seq"`
	IRVersion string       `json:"ir_version" yaml:"ir_version"`
	Axis      []ir.Version `json:"axis" yaml:"axis"`
	GraphHash string       `json:"graph_hash" yaml:"graph_hash"`
	Nodes     int          `json:"nodes" yaml:"nodes"`
}

// Revision is one stored timeline entry of a declaration.
type Revision struct {
	Name     ir.QualifiedName `json:"name" yaml:"name"`
	Kind     ir.DeclKind      `json:"kind" yaml:"kind"`
	TopLevel bool             `json:"top_level" yaml:"top_level"`
	Since    ir.Version       `json:"since" yaml:"since"`
	Until    ir.Version       `json:"until,omitempty" yaml:"until,omitempty"`
	Hash     string           `json:"hash" yaml:"hash"`
	Content  map[string]any   `json:"content" yaml:"content"`
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const buildColumns = `id, seq, ir_version, axis, graph_hash, node_count`

const revisionColumns = `name, kind, top_level, since, until, hash, content`

// ReadBuild retrieves a build by ID.
// Returns ErrNotFound if no such build exists.
func (s *Store) ReadBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if err != nil {
		return Build{}, fmt.Errorf("read build %s: %w", id, err)
	}
	return b, nil
}

// LatestBuild returns the most recently written build.
// Returns ErrNotFound if the store is empty.
func (s *Store) LatestBuild(ctx context.Context) (Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds ORDER BY seq DESC LIMIT 1`)
	b, err := scanBuild(row)
	if err != nil {
		return Build{}, fmt.Errorf("latest build: %w", err)
	}
	return b, nil
}

// ListBuilds returns all builds ordered by seq ASC.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+buildColumns+` FROM builds ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

func (s *Store) buildByHash(ctx context.Context, hash string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE graph_hash = ?`, hash)
	return scanBuild(row)
}

// ReadAsOf returns the revision of name in force at version v.
func (s *Store) ReadAsOf(ctx context.Context, buildID string, name ir.QualifiedName, v ir.Version) (Revision, error) {
	idx, err := s.versionIndex(ctx, buildID, v)
	if err != nil {
		return Revision{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE build_id = ? AND name = ?
		  AND since_idx <= ? AND (until_idx IS NULL OR until_idx > ?)
	`, buildID, string(name), idx, idx)
	rev, err := scanRevision(row)
	if err != nil {
		return Revision{}, fmt.Errorf("read %s as of %s: %w", name, v, err)
	}
	return rev, nil
}

// ReadSnapshot returns every declaration revision in force at v, in graph
// registration order.
func (s *Store) ReadSnapshot(ctx context.Context, buildID string, v ir.Version) ([]Revision, error) {
	idx, err := s.versionIndex(ctx, buildID, v)
	if err != nil {
		return nil, err
	}
	return s.queryRevisions(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE build_id = ?
		  AND since_idx <= ? AND (until_idx IS NULL OR until_idx > ?)
		ORDER BY ord ASC
	`, buildID, idx, idx)
}

// ReadHistory returns all revisions of name ordered along the axis.
// Returns ErrNotFound if the build has no declaration by that name.
func (s *Store) ReadHistory(ctx context.Context, buildID string, name ir.QualifiedName) ([]Revision, error) {
	revs, err := s.queryRevisions(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE build_id = ? AND name = ?
		ORDER BY since_idx ASC
	`, buildID, string(name))
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("read history of %s: %w", name, ErrNotFound)
	}
	return revs, nil
}

// ChangedAt returns the declarations with a revision starting at v, in
// graph registration order.
func (s *Store) ChangedAt(ctx context.Context, buildID string, v ir.Version) ([]ir.QualifiedName, error) {
	idx, err := s.versionIndex(ctx, buildID, v)
	if err != nil {
		return nil, err
	}
	revs, err := s.queryRevisions(ctx, `
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE build_id = ? AND since_idx = ?
		ORDER BY ord ASC
	`, buildID, idx)
	if err != nil {
		return nil, err
	}
	names := make([]ir.QualifiedName, len(revs))
	for i, r := range revs {
		names[i] = r.Name
	}
	return names, nil
}

// versionIndex locates v on the axis recorded for the build.
func (s *Store) versionIndex(ctx context.Context, buildID string, v ir.Version) (int, error) {
	b, err := s.ReadBuild(ctx, buildID)
	if err != nil {
		return 0, err
	}
	idx := slices.Index(b.Axis, v)
	if idx < 0 {
		return 0, &ir.Error{Code: ir.ErrCodeUnknownVersion, Message: fmt.Sprintf("version %q is not on the axis of build %s", v, buildID)}
	}
	return idx, nil
}

func (s *Store) queryRevisions(ctx context.Context, query string, args ...any) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	revs := []Revision{}
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revs, nil
}

func scanBuild(row scanner) (Build, error) {
	var b Build
	var axisJSON string
	err := row.Scan(&b.ID, &b.Seq, &b.IRVersion, &axisJSON, &b.GraphHash, &b.Nodes)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, ErrNotFound
	}
	if err != nil {
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	if b.Axis, err = unmarshalAxis(axisJSON); err != nil {
		return Build{}, err
	}
	return b, nil
}

func scanRevision(row scanner) (Revision, error) {
	var rev Revision
	var name, kind, since, content string
	var until sql.NullString
	err := row.Scan(&name, &kind, &rev.TopLevel, &since, &until, &rev.Hash, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, ErrNotFound
	}
	if err != nil {
		return Revision{}, fmt.Errorf("scan revision: %w", err)
	}
	rev.Name = ir.QualifiedName(name)
	rev.Kind = ir.DeclKind(kind)
	rev.Since = ir.Version(since)
	rev.Until = ir.Version(until.String)
	if rev.Content, err = unmarshalContent(content); err != nil {
		return Revision{}, err
	}
	return rev, nil
}
