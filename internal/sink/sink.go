// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink writes report files to a local directory or to a Google
// Cloud Storage bucket.
package sink

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// A Sink creates named output files.
type Sink interface {
	// Create returns a writer for the named file. The file is
	// complete once the writer is closed without error.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// Close releases the resources held by the sink.
	Close() error
}

// Open returns the sink for target, which is either a directory path
// or a "gs://bucket/prefix" URL. An empty target is the current
// directory.
func Open(ctx context.Context, target string) (Sink, error) {
	bucket, prefix, ok, err := parseGCS(target)
	if err != nil {
		return nil, err
	}
	if ok {
		return NewGCS(ctx, bucket, prefix)
	}
	if target == "" {
		target = "."
	}
	return Dir(target), nil
}

// parseGCS splits a gs:// URL into bucket and object prefix.
func parseGCS(target string) (bucket, prefix string, ok bool, err error) {
	rest, ok := strings.CutPrefix(target, "gs://")
	if !ok {
		return "", "", false, nil
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false, fmt.Errorf("%s: missing bucket name", target)
	}
	return bucket, strings.Trim(prefix, "/"), true, nil
}

// checkName rejects names that would escape the sink.
func checkName(name string) error {
	if name == "" || path.IsAbs(name) || filepath.IsAbs(name) {
		return fmt.Errorf("bad output name %q", name)
	}
	clean := path.Clean(filepath.ToSlash(name))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("output name %q escapes the output directory", name)
	}
	return nil
}

// Dir is a Sink that writes files under a local directory, creating it
// as needed.
type Dir string

func (d Dir) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	file := filepath.Join(string(d), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(file), 0777); err != nil {
		return nil, err
	}
	return os.Create(file)
}

func (d Dir) Close() error { return nil }

// GCS is a Sink that writes objects to a Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS returns a sink that writes objects named prefix/name to
// bucket, using application default credentials.
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("finding credentials: %w", err)
	}
	client, err := storage.NewClient(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

func (g *GCS) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	w := g.client.Bucket(g.bucket).Object(g.object(name)).NewWriter(ctx)
	w.ContentType = mime.TypeByExtension(path.Ext(name))
	return w, nil
}

func (g *GCS) object(name string) string {
	return path.Join(g.prefix, filepath.ToSlash(name))
}

func (g *GCS) Close() error {
	return g.client.Close()
}
