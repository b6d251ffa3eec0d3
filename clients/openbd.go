package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// openBD answers with a JSON array holding null for unknown ISBNs.
type openBDRecord struct {
	Summary struct {
		ISBN      string `json:"isbn"`
		Title     string `json:"title"`
		Volume    string `json:"volume"`
		Series    string `json:"series"`
		Publisher string `json:"publisher"`
		PubDate   string `json:"pubdate"`
		Cover     string `json:"cover"`
		Author    string `json:"author"`
	} `json:"summary"`
}

type OpenBDClient struct {
	baseURL string
	http    *http.Client
}

func NewOpenBDClient(baseURL string, timeout time.Duration) *OpenBDClient {
	return &OpenBDClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

func (c *OpenBDClient) LookupByISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	var records []*openBDRecord
	if err := getJSON(ctx, c.http, c.baseURL+"?isbn="+url.QueryEscape(isbn), &records); err != nil {
		return nil, errors.Wrap(err, "openbd")
	}
	if len(records) == 0 || records[0] == nil || records[0].Summary.Title == "" {
		return nil, ErrNotFound
	}

	s := records[0].Summary
	title := s.Title
	if s.Volume != "" && !strings.Contains(title, s.Volume) {
		title = title + " " + s.Volume
	}
	return &BookInfo{
		Title:         title,
		Authors:       splitOpenBDAuthors(s.Author),
		Publisher:     s.Publisher,
		PublishedDate: normalizeOpenBDDate(s.PubDate),
		CoverImageURL: s.Cover,
		ISBN:          isbn,
		Categories:    []string{},
		Source:        "openbd",
	}, nil
}

// SearchByTitle is unsupported by openBD.
func (c *OpenBDClient) SearchByTitle(ctx context.Context, title string) ([]BookInfo, error) {
	return []BookInfo{}, nil
}

// splitOpenBDAuthors turns "尾田栄一郎／著 山田太郎／訳" into names.
func splitOpenBDAuthors(s string) []string {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	authors := make([]string, 0, len(fields))
	for _, f := range fields {
		if i := strings.Index(f, "／"); i >= 0 {
			f = f[:i]
		}
		if f != "" {
			authors = append(authors, f)
		}
	}
	return authors
}

// normalizeOpenBDDate converts "20200304" and "202003" to dashed form.
func normalizeOpenBDDate(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) == 8 && !strings.Contains(s, "-"):
		return s[:4] + "-" + s[4:6] + "-" + s[6:]
	case len(s) == 6 && !strings.Contains(s, "-"):
		return s[:4] + "-" + s[4:]
	}
	return s
}
