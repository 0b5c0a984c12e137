// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/wabarc/logger"
)

// URL is an archived HTML response of a web page.
type URL struct {
	URL       string
	Timestamp time.Time
	HTML      []byte

	// Path is the file the archive was read from, empty when fetched.
	Path string
}

// History is a set of archives ordered by capture time.
type History []*URL

func (h History) Len() int      { return len(h) }
func (h History) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h History) Less(i, j int) bool {
	a, b := h[i], h[j]
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.URL != b.URL {
		return a.URL < b.URL
	}
	return a.Path < b.Path
}

// OpenArchiveFilepath reads the archive stored at path. The url and capture
// time come from the file name; gzipped content is decompressed.
func OpenArchiveFilepath(path string) (*URL, error) {
	u, ts, err := ReverseArchiveFilename(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if mimetype.Detect(data).Is("application/gzip") {
		logger.Debug("[storytracker] decompress %s", path)
		if data, err = gunzip(data); err != nil {
			return nil, errors.Wrapf(err, "decompress %s failed", path)
		}
	}

	return &URL{URL: u, Timestamp: ts, HTML: data, Path: path}, nil
}

// OpenArchiveDirectory opens every archive below dir.
func OpenArchiveDirectory(dir string) (History, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	var history History
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !isArchiveFile(d.Name()) {
			return nil
		}

		u, err := OpenArchiveFilepath(path)
		if err != nil {
			return err
		}
		history = append(history, u)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open archive directory %s failed", dir)
	}
	sort.Sort(history)
	logger.Debug("[storytracker] opened %d archives in %s", len(history), dir)

	return history, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

func writeArchive(path string, data []byte, compress bool) error {
	return writeFile(path, func(w io.Writer) error {
		if !compress {
			_, err := w.Write(data)
			return err
		}
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		return zw.Close()
	})
}

// writeFile renames a fully written temporary file to path, so a failed
// write never leaves a partial archive behind.
func writeFile(path string, write func(io.Writer) error) (err error) {
	fd, err := os.CreateTemp(filepath.Dir(path), ".storytracker-*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			fd.Close()
			os.Remove(fd.Name())
		}
	}()

	if err = write(fd); err != nil {
		return errors.WithStack(err)
	}
	if err = fd.Sync(); err != nil {
		return errors.WithStack(err)
	}
	if err = fd.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err = os.Chmod(fd.Name(), 0o644); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(os.Rename(fd.Name(), path))
}
