// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweepdb archives parsed sweep records in a SQL database so
// that several sweep runs can be charted together later.
package sweepdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/heatshrink/sweep/sweepfmt"
)

// DB is a sweep record archive. It's safe for concurrent use by
// multiple goroutines.
type DB struct {
	sql *sql.DB

	insertUpload *sql.Stmt
	insertRecord *sql.Stmt
}

// OpenSQL opens the archive stored in the database named by driver and
// dsn, as passed to sql.Open, creating its tables if needed. The table
// definitions are written for sqlite3 and mysql; any other driver gets
// the mysql dialect.
func OpenSQL(driver, dsn string) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if hook, ok := openHooks[driver]; ok {
		if err := hook(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s open hook: %w", driver, err)
		}
	}
	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}
	db := &DB{sql: conn}
	if err := db.init(driver); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

var openHooks = map[string]func(*sql.DB) error{}

// RegisterOpenHook arranges for OpenSQL to call hook on every new
// handle of driver. Driver packages such as sweepdb/sqlite3 call it
// from init.
func RegisterOpenHook(driver string, hook func(*sql.DB) error) {
	openHooks[driver] = hook
}

// schema creates the archive tables. It is executed with a map whose
// only true key is the driver name, and holds one statement per
// semicolon.
var schema = template.Must(template.New("schema").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS Records (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Bucket VARCHAR(255),
	Content BLOB,
{{if not .sqlite3}}
	Index (Bucket),
{{end}}
	PRIMARY KEY (UploadID, RecordID),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsBucket ON Records(Bucket);
{{end}}
`))

// init creates any missing tables and prepares the insert statements.
func (db *DB) init(driver string) error {
	var ddl strings.Builder
	if err := schema.Execute(&ddl, map[string]bool{driver: true}); err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl.String(), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.sql.Exec(stmt); err != nil {
			return fmt.Errorf("creating archive tables: %w", err)
		}
	}

	newUpload := "INSERT INTO Uploads() VALUES ()"
	if driver == "sqlite3" {
		newUpload = "INSERT INTO Uploads DEFAULT VALUES"
	}
	var err error
	if db.insertUpload, err = db.sql.Prepare(newUpload); err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(UploadID, RecordID, Bucket, Content) VALUES (?, ?, ?, ?)")
	return err
}

// An Upload is one archived sweep run.
type Upload struct {
	// ID identifies the upload.
	ID string

	id   int64 // UploadID behind ID
	next int64 // RecordID of the next record
	db   *DB
}

// NewUpload returns an upload for storing new records.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	res, err := db.insertUpload.ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Upload{
		ID: fmt.Sprint(i),
		id: i,
		db: db,
	}, nil
}

// InsertRecord appends r to the upload under the given bucket name.
// Records are stored in their text form.
func (u *Upload) InsertRecord(ctx context.Context, bucket string, r *sweepfmt.Record) (err error) {
	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.StmtContext(ctx, u.db.insertRecord).ExecContext(ctx, u.id, u.next, bucket, []byte(r.String())); err != nil {
		return err
	}
	u.next++
	return nil
}

// Records returns the archived records of schema s in the named bucket,
// oldest upload first and in insertion order within an upload. If
// bucket is "", records of every bucket are returned.
func (db *DB) Records(ctx context.Context, s *sweepfmt.Schema, bucket string) ([]*sweepfmt.Record, error) {
	q := "SELECT UploadID, RecordID, Content FROM Records"
	var args []interface{}
	if bucket != "" {
		q += " WHERE Bucket = ?"
		args = append(args, bucket)
	}
	q += " ORDER BY UploadID, RecordID"
	rows, err := db.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*sweepfmt.Record
	for rows.Next() {
		var uploadID, recordID int64
		var content []byte
		if err := rows.Scan(&uploadID, &recordID, &content); err != nil {
			return nil, err
		}
		rec, err := sweepfmt.ParseLine(s, string(content))
		if err == nil && rec == nil {
			err = fmt.Errorf("not a %s record", s.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("upload %d record %d: %w", uploadID, recordID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Buckets returns the distinct bucket names in the archive, in sorted
// order.
func (db *DB) Buckets(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT DISTINCT Bucket FROM Records ORDER BY Bucket")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountUploads returns the number of uploads in the archive.
func (db *DB) CountUploads(ctx context.Context) (int, error) {
	var uploads int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close releases the prepared statements and the database handle.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertUpload, db.insertRecord} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
