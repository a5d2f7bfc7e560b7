// Package sqlite persists search requests in a SQLite database.
//
// Queries are stored as JQL text: the literal the owner typed when one
// exists, the canonical rendering otherwise. Loading therefore needs a
// query.Parser; a request whose stored text no longer parses surfaces the
// parse error with the request id attached rather than silently dropping
// the filter.
package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/jqlkit/jqlkit/internal/filter"
	"github.com/jqlkit/jqlkit/internal/query"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed filter.Store.
type Store struct {
	db     *sql.DB
	parser query.Parser
	log    *logrus.Logger
}

var _ filter.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger substitutes the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Open creates or opens the database at path. WAL mode allows readers during
// writes; the pool is capped at one connection because SQLite has a single
// writer.
func Open(path string, parser query.Parser, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db, parser: parser, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Create(sr *filter.SearchRequest) (*filter.SearchRequest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO search_request (name, description, owner_key, query_text, favourite_count)
		 VALUES (?, ?, ?, ?, ?)`,
		sr.Name, sr.Description, sr.OwnerKey, queryText(sr.Query), sr.FavouriteCount,
	)
	if err != nil {
		return nil, wrapDBError("create search request", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	if err := insertPermissions(tx, id, sr.Permissions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.WithFields(logrus.Fields{"id": id, "owner": sr.OwnerKey}).Debug("search request created")
	out := sr.Clone()
	out.ID = id
	return out, nil
}

func (s *Store) Update(sr *filter.SearchRequest) (*filter.SearchRequest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE search_request
		 SET name = ?, description = ?, owner_key = ?, query_text = ?
		 WHERE id = ?`,
		sr.Name, sr.Description, sr.OwnerKey, queryText(sr.Query), sr.ID,
	)
	if err != nil {
		return nil, wrapDBError("update search request", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update search request: %w", err)
	}
	if n == 0 {
		return nil, filter.ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM share_permission WHERE request_id = ?`, sr.ID); err != nil {
		return nil, fmt.Errorf("update search request: %w", err)
	}
	if err := insertPermissions(tx, sr.ID, sr.Permissions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.WithField("id", sr.ID).Debug("search request updated")
	return sr.Clone(), nil
}

func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM search_request WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete search request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search request: %w", err)
	}
	if n == 0 {
		return filter.ErrNotFound
	}
	s.log.WithField("id", id).Debug("search request deleted")
	return nil
}

func (s *Store) AdjustFavouriteCount(id int64, delta int64) (*filter.SearchRequest, error) {
	res, err := s.db.Exec(
		`UPDATE search_request SET favourite_count = MAX(0, favourite_count + ?) WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return nil, fmt.Errorf("adjust favourite count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("adjust favourite count: %w", err)
	}
	if n == 0 {
		return nil, filter.ErrNotFound
	}
	return s.GetByID(id)
}

func (s *Store) GetByID(id int64) (*filter.SearchRequest, error) {
	return s.getOne(`SELECT id, name, description, owner_key, query_text, favourite_count
	                 FROM search_request WHERE id = ?`, id)
}

func (s *Store) GetByOwnerAndName(owner, name string) (*filter.SearchRequest, error) {
	return s.getOne(`SELECT id, name, description, owner_key, query_text, favourite_count
	                 FROM search_request WHERE owner_key = ? AND name = ?`, owner, name)
}

func (s *Store) GetAllOwnedBy(owner string) ([]*filter.SearchRequest, error) {
	return s.getMany(`SELECT id, name, description, owner_key, query_text, favourite_count
	                  FROM search_request WHERE owner_key = ? ORDER BY name`, owner)
}

func (s *Store) FindByNameIgnoreCase(name string) ([]*filter.SearchRequest, error) {
	return s.getMany(`SELECT id, name, description, owner_key, query_text, favourite_count
	                  FROM search_request WHERE name = ? COLLATE NOCASE ORDER BY owner_key, name`, name)
}

func (s *Store) getOne(q string, args ...any) (*filter.SearchRequest, error) {
	sr, err := s.scanRequest(s.db.QueryRow(q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadPermissions(sr); err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *Store) getMany(q string, args ...any) ([]*filter.SearchRequest, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query search requests: %w", err)
	}
	defer rows.Close()

	var out []*filter.SearchRequest
	for rows.Next() {
		sr, err := s.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query search requests: %w", err)
	}
	for _, sr := range out {
		if err := s.loadPermissions(sr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRequest(row rowScanner) (*filter.SearchRequest, error) {
	var sr filter.SearchRequest
	var text string
	if err := row.Scan(&sr.ID, &sr.Name, &sr.Description, &sr.OwnerKey, &text, &sr.FavouriteCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan search request: %w", err)
	}
	q, err := s.parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse stored query for request %d: %w", sr.ID, err)
	}
	sr.Query = q
	return &sr, nil
}

func (s *Store) loadPermissions(sr *filter.SearchRequest) error {
	rows, err := s.db.Query(
		`SELECT share_type, group_name, project_id, role_id
		 FROM share_permission WHERE request_id = ? ORDER BY id`, sr.ID)
	if err != nil {
		return fmt.Errorf("load permissions for request %d: %w", sr.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p filter.SharePermission
		var shareType string
		if err := rows.Scan(&shareType, &p.Group, &p.ProjectID, &p.RoleID); err != nil {
			return fmt.Errorf("scan permission for request %d: %w", sr.ID, err)
		}
		p.Type = filter.ShareType(shareType)
		sr.Permissions = append(sr.Permissions, p)
	}
	return rows.Err()
}

func insertPermissions(tx *sql.Tx, id int64, perms []filter.SharePermission) error {
	for _, p := range perms {
		if _, err := tx.Exec(
			`INSERT INTO share_permission (request_id, share_type, group_name, project_id, role_id)
			 VALUES (?, ?, ?, ?, ?)`,
			id, string(p.Type), p.Group, p.ProjectID, p.RoleID,
		); err != nil {
			return fmt.Errorf("insert permission for request %d: %w", id, err)
		}
	}
	return nil
}

// queryText serializes a query for storage: the owner's literal when one
// exists, the canonical rendering otherwise. Nil means "no constraints" and
// stores as blank, which the parser maps back to an unconstrained query.
func queryText(q *query.Query) string {
	if q == nil {
		return ""
	}
	return q.String()
}

// wrapDBError maps driver-level failures onto the store's error taxonomy.
func wrapDBError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%s: %w", op, filter.ErrDuplicateName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
