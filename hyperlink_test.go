// Copyright 2021 Wayback Archiver. All rights reserved.
// Use of this source code is governed by the GNU GPL v3
// license that can be found in the LICENSE file.

package storytracker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHyperlinks(t *testing.T) {
	u := &URL{URL: "http://www.example.com/section/", Timestamp: capturedAt, HTML: []byte(frontPage)}

	links, err := u.Hyperlinks()
	require.NoError(t, err)

	want := []Hyperlink{
		{Href: "http://www.example.com/news/1", String: "First story", Domain: "www.example.com", Index: 0},
		{Href: "https://Other.example.org/x?a=1", String: "Other", Domain: "other.example.org", Index: 1},
		{Href: "http://www.example.com/section/story-2", String: "Second", Domain: "www.example.com", Index: 2},
	}
	assert.Equal(t, want, links)
}

func TestHyperlinksBaseHref(t *testing.T) {
	html := `<html><head><base href="http://cdn.example.net/root/"></head>
<body><a href="page">Page</a><a href="/top">Top</a></body></html>`
	u := &URL{URL: "http://www.example.com/", HTML: []byte(html)}

	links, err := u.Hyperlinks()
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "http://cdn.example.net/root/page", links[0].Href)
	assert.Equal(t, "http://cdn.example.net/top", links[1].Href)
	assert.Equal(t, "cdn.example.net", links[1].Domain)
}

func TestHyperlinksCharset(t *testing.T) {
	html := "<html><head><meta charset=\"iso-8859-1\"></head><body><a href=\"/menu\">caf\xe9</a></body></html>"
	u := &URL{URL: "http://www.example.com/", HTML: []byte(html)}

	links, err := u.Hyperlinks()
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "café", links[0].String)
}

func TestHyperlinksNone(t *testing.T) {
	u := &URL{URL: "http://www.example.com/", HTML: []byte("<p>no links here</p>")}

	links, err := u.Hyperlinks()
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestWriteHyperlinksCSV(t *testing.T) {
	u := &URL{URL: "http://www.example.com/section/", Timestamp: capturedAt, HTML: []byte(frontPage)}

	var buf bytes.Buffer
	require.NoError(t, u.WriteHyperlinksCSV(&buf))

	want := strings.Join([]string{
		"archive_url,archive_timestamp,url,string,domain,index",
		"http://www.example.com/section/,2014-02-07T04:21:07.012345+00:00,http://www.example.com/news/1,First story,www.example.com,0",
		"http://www.example.com/section/,2014-02-07T04:21:07.012345+00:00,https://Other.example.org/x?a=1,Other,other.example.org,1",
		"http://www.example.com/section/,2014-02-07T04:21:07.012345+00:00,http://www.example.com/section/story-2,Second,www.example.com,2",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteHyperlinksCSVQuoting(t *testing.T) {
	html := `<a href="/q">Hello, "world"</a>`
	u := &URL{URL: "http://www.example.com/", Timestamp: capturedAt, HTML: []byte(html)}

	var buf bytes.Buffer
	require.NoError(t, u.WriteHyperlinksCSV(&buf))
	assert.Contains(t, buf.String(), `,"Hello, ""world""",`)
}

func TestHistoryWriteHyperlinksCSV(t *testing.T) {
	a := &URL{URL: "http://www.example.com/", Timestamp: capturedAt, HTML: []byte(`<a href="/a">A</a>`)}
	b := &URL{URL: "http://www.example.org/", Timestamp: capturedAt, HTML: []byte(`<a href="/b">B</a>`)}

	var want bytes.Buffer
	require.NoError(t, a.WriteHyperlinksCSV(&want))
	require.NoError(t, b.WriteHyperlinksCSV(&want))

	var got bytes.Buffer
	require.NoError(t, History{a, b}.WriteHyperlinksCSV(&got))
	assert.Equal(t, want.String(), got.String())
}

func TestIgnoreHref(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"", true},
		{"#", true},
		{"#comments", true},
		{"JavaScript:alert(1)", true},
		{"mailto:a@example.com", true},
		{"tel:+1555", true},
		{"data:text/html,hi", true},
		{"/news", false},
		{"https://example.com/#frag", false},
		{"//cdn.example.com/x", false},
	}
	for _, test := range tests {
		if got := ignoreHref(test.href); got != test.want {
			t.Errorf("ignoreHref(%q) = %v, want %v", test.href, got, test.want)
		}
	}
}
