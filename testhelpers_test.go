// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

const frontPage = `
<html>
<head>
    <title>Front page</title>
</head>

<body>
<a href="/news/1">  First
    story </a>
<a href="https://Other.example.org/x?a=1">Other</a>
<a href="#top">Top</a>
<a href="javascript:void(0)">JS</a>
<a href="mailto:desk@example.com">Mail</a>
<a>No href</a>
<a href="">Empty</a>
<a href="story-2">Second</a>
</body>
</html>
`

// writeFixture stores html as an archive of url inside dir.
func writeFixture(t *testing.T, dir, url string, ts time.Time, html string, compress bool) string {
	t.Helper()

	data := []byte(html)
	ext := extHTML
	if compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		data = buf.Bytes()
		ext = extGzip
	}

	path := filepath.Join(dir, CreateArchiveFilename(url, ts)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
