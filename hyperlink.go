// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/wabarc/logger"
	"golang.org/x/net/html/charset"
)

// Hyperlink is an anchor found in an archived page.
type Hyperlink struct {
	Href   string
	String string
	Domain string
	Index  int
}

var csvHeader = []string{"archive_url", "archive_timestamp", "url", "string", "domain", "index"}

var ignoredSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Hyperlinks returns the page's anchors in document order, resolved
// against the archived url.
func (u *URL) Hyperlinks() ([]Hyperlink, error) {
	doc, err := u.document()
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(u.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse archive url %s failed", u.URL)
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	links := []Hyperlink{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if ignoreHref(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			logger.Debug("[storytracker] skip href %q: %v", href, err)
			return
		}
		abs := base.ResolveReference(ref)
		links = append(links, Hyperlink{
			Href:   abs.String(),
			String: strings.Join(strings.Fields(sel.Text()), " "),
			Domain: strings.ToLower(abs.Hostname()),
			Index:  len(links),
		})
	})

	return links, nil
}

// WriteHyperlinksCSV writes a header row followed by one row per hyperlink.
func (u *URL) WriteHyperlinksCSV(w io.Writer) error {
	links, err := u.Hyperlinks()
	if err != nil {
		return err
	}

	ts := u.Timestamp.UTC().Format(TimestampLayout)
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.WithStack(err)
	}
	for _, link := range links {
		row := []string{u.URL, ts, link.Href, link.String, link.Domain, strconv.Itoa(link.Index)}
		if err := cw.Write(row); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()

	return errors.WithStack(cw.Error())
}

// WriteHyperlinksCSV renders every archive in order.
func (h History) WriteHyperlinksCSV(w io.Writer) error {
	for _, u := range h {
		if err := u.WriteHyperlinksCSV(w); err != nil {
			return err
		}
	}
	return nil
}

func (u *URL) document() (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(u.HTML), "text/html")
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s failed", u.URL)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s failed", u.URL)
	}
	return doc, nil
}

func ignoreHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	for _, scheme := range ignoredSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
