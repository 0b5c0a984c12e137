// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"bytes"
	"net/url"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-shiori/go-readability"
	"github.com/pkg/errors"
)

// Article returns the readable content of the archived page.
func (u *URL) Article() (readability.Article, error) {
	input, err := url.Parse(u.URL)
	if err != nil {
		return readability.Article{}, errors.Wrapf(err, "parse archive url %s failed", u.URL)
	}
	doc, err := u.document()
	if err != nil {
		return readability.Article{}, err
	}
	html, err := doc.Html()
	if err != nil {
		return readability.Article{}, errors.WithStack(err)
	}

	article, err := readability.FromReader(bytes.NewReader([]byte(html)), input)
	if err != nil {
		return readability.Article{}, errors.Wrap(err, `readability failed`)
	}
	return article, nil
}

// ContentType reports the sniffed MIME type of the archived bytes.
func (u *URL) ContentType() string {
	return mimetype.Detect(u.HTML).String()
}
