// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for sweepdb. It must be
// imported instead of go-sqlite3 to ensure foreign keys are properly
// honored. Without cgo the package registers nothing.
package sqlite3
