// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-shiori/obelisk"
	"github.com/pkg/errors"
	"github.com/wabarc/helper"
	"github.com/wabarc/logger"
)

// DefaultUserAgent identifies requests made while archiving.
const DefaultUserAgent = "storytracker (+https://github.com/wabarc/storytracker)"

// Archiver fetches live pages and stores them as archives.
type Archiver struct {
	Dir       string
	Compress  bool
	UserAgent string
	Timeout   time.Duration
	Retries   int

	now      func() time.Time
	interval time.Duration
}

// New returns an Archiver writing gzipped archives to the working directory.
func New() *Archiver {
	return &Archiver{
		Dir:       ".",
		Compress:  true,
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
		Retries:   3,
	}
}

// SetDir return an Archiver struct with the output directory
func (arc *Archiver) SetDir(dir string) *Archiver {
	arc.Dir = dir
	return arc
}

// SetCompress return an Archiver struct with gzip output toggled
func (arc *Archiver) SetCompress(compress bool) *Archiver {
	arc.Compress = compress
	return arc
}

// SetUserAgent return an Archiver struct with UserAgent
func (arc *Archiver) SetUserAgent(ua string) *Archiver {
	arc.UserAgent = ua
	return arc
}

// SetTimeout return an Archiver struct with the per-request timeout
func (arc *Archiver) SetTimeout(d time.Duration) *Archiver {
	arc.Timeout = d
	return arc
}

// SetRetries return an Archiver struct with the retry count
func (arc *Archiver) SetRetries(n int) *Archiver {
	arc.Retries = n
	return arc
}

// SetClock replaces the capture time source.
func (arc *Archiver) SetClock(now func() time.Time) *Archiver {
	arc.now = now
	return arc
}

// Get fetches rawURL as a self-contained HTML document.
func (arc *Archiver) Get(ctx context.Context, rawURL string) (*URL, error) {
	if !helper.IsURL(rawURL) {
		return nil, errors.Errorf("%s is invalid url", rawURL)
	}
	input, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, `parse url failed`)
	}

	timeout := arc.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	ob := &obelisk.Archiver{
		UserAgent:            arc.UserAgent,
		RequestTimeout:       timeout,
		SkipResourceURLError: true,
	}
	ob.Validate()

	var content []byte
	fetch := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		c, err := arc.fetch(ctx, ob, input)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			logger.Debug("[storytracker] fetch %s failed: %v", input, err)
			return err
		}
		content = c
		return nil
	}

	retries := arc.Retries
	if retries < 0 {
		retries = 0
	}
	exp := backoff.NewExponentialBackOff()
	if arc.interval > 0 {
		exp.InitialInterval = arc.interval
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
	if err := backoff.Retry(fetch, b); err != nil {
		return nil, errors.Wrapf(err, "archive %s failed", input)
	}

	return &URL{URL: input.String(), Timestamp: arc.clock().UTC().Truncate(time.Microsecond), HTML: content}, nil
}

// Archive fetches rawURL and writes it to Dir, returning the written path.
func (arc *Archiver) Archive(ctx context.Context, rawURL string) (string, error) {
	u, err := arc.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	dir := arc.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, `create archive dir failed`)
	}

	ext := extHTML
	if arc.Compress {
		ext = extGzip
	}
	u.Path = filepath.Join(dir, CreateArchiveFilename(u.URL, u.Timestamp)+ext)
	if err := writeArchive(u.Path, u.HTML, arc.Compress); err != nil {
		return "", errors.Wrap(err, `write archive failed`)
	}
	logger.Debug("[storytracker] archived %s to %s", u.URL, u.Path)

	return u.Path, nil
}

// fetch returns as soon as ctx is done; obelisk does not pass ctx to its
// requests, so an abandoned download finishes in the background.
func (arc *Archiver) fetch(ctx context.Context, ob *obelisk.Archiver, input *url.URL) ([]byte, error) {
	type result struct {
		content []byte
		err     error
	}
	done := make(chan result, 1)
	go func() {
		c, _, err := ob.Archive(ctx, obelisk.Request{URL: input.String()})
		done <- result{c, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.content, r.err
	}
}

func (arc *Archiver) clock() time.Time {
	if arc.now != nil {
		return arc.now()
	}
	return time.Now()
}
