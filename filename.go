// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	slash     = "/"
	slashSub  = "!"
	delimiter = "@"

	extHTML = ".html"
	extGzip = ".gz"
)

// TimestampLayout formats capture times in archive names and CSV output.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// ErrInvalidFilename is returned when a name does not follow the archive naming scheme.
var ErrInvalidFilename = errors.New("invalid archive filename")

// CreateArchiveFilename returns the extensionless name an archive of url
// captured at t is stored under.
//
// Every "/" in url becomes "!", so a url that already contains "!" does not
// survive ReverseArchiveFilename unchanged.
func CreateArchiveFilename(url string, t time.Time) string {
	return strings.ReplaceAll(url, slash, slashSub) + delimiter + t.UTC().Format(TimestampLayout)
}

// ReverseArchiveFilename recovers the url and capture time from an archive name.
// Trailing .gz and .html extensions are ignored.
func ReverseArchiveFilename(name string) (string, time.Time, error) {
	name = strings.TrimSuffix(name, extGzip)
	name = strings.TrimSuffix(name, extHTML)

	i := strings.LastIndex(name, delimiter)
	if i < 1 {
		return "", time.Time{}, errors.Wrapf(ErrInvalidFilename, "%q", name)
	}

	ts, err := time.Parse(time.RFC3339Nano, name[i+1:])
	if err != nil {
		return "", time.Time{}, errors.Wrapf(ErrInvalidFilename, "%q: %v", name, err)
	}

	return strings.ReplaceAll(name[:i], slashSub, slash), ts.UTC(), nil
}

func isArchiveFile(name string) bool {
	switch filepath.Ext(name) {
	case extHTML, extGzip:
		return true
	}
	return false
}
