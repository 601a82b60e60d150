// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens throwaway sweep archives for tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"

	"github.com/heatshrink/sweep/sweepdb"
	_ "github.com/heatshrink/sweep/sweepdb/sqlite3"
)

var (
	cloud    = flag.Bool("cloud", false, "run archive tests against Cloud SQL instead of in-memory SQLite")
	instance = flag.String("cloudsql", "heatshrink-sweep:us-central1:sweeps", "Cloud SQL `instance` used with -cloud")
)

// NewDB returns an empty archive for t: in-memory SQLite by default, or
// a scratch database on Cloud SQL with -cloud. The archive is closed,
// and a Cloud SQL database dropped, when t finishes.
func NewDB(t *testing.T) *sweepdb.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if *cloud {
		driver, dsn = "mysql", scratchDSN(t)
	}
	db, err := sweepdb.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("opening %s archive: %v", driver, err)
	}
	// Cleanups run last-in first-out, so the archive is closed before
	// its database is dropped.
	t.Cleanup(func() { db.Close() })

	n, err := db.CountUploads(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("new archive holds %d uploads, want 0", n)
	}
	return db
}

// scratchDSN creates a uniquely named database on the Cloud SQL
// instance and returns its DSN.
func scratchDSN(t *testing.T) string {
	t.Helper()
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		t.Fatal(err)
	}
	name := "sweep_test_" + hex.EncodeToString(buf[:])
	server := fmt.Sprintf("root:@cloudsql(%s)/", *instance)

	admin, err := sql.Open("mysql", server)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Exec("CREATE DATABASE `" + name + "`"); err != nil {
		admin.Close()
		t.Fatal(err)
	}
	t.Logf("using Cloud SQL database %s", name)
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP DATABASE `" + name + "`"); err != nil {
			t.Errorf("dropping %s: %v", name, err)
		}
		admin.Close()
	})
	return server + name
}
