package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	Categories          []string `json:"categories"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

func (v googleVolumeInfo) isbn13() string {
	for _, id := range v.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}

func (v googleVolumeInfo) toBookInfo() BookInfo {
	cover := v.ImageLinks.Thumbnail
	if cover == "" {
		cover = v.ImageLinks.SmallThumbnail
	}
	return BookInfo{
		Title:         v.Title,
		Authors:       v.Authors,
		Publisher:     v.Publisher,
		PublishedDate: v.PublishedDate,
		CoverImageURL: strings.Replace(cover, "http://", "https://", 1),
		ISBN:          v.isbn13(),
		Categories:    v.Categories,
		Description:   v.Description,
		Source:        "google_books",
	}
}

type GoogleBooksClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGoogleBooksClient(baseURL string, apiKey string, timeout time.Duration) *GoogleBooksClient {
	return &GoogleBooksClient{baseURL: baseURL, apiKey: apiKey, http: newHTTPClient(timeout)}
}

func (c *GoogleBooksClient) query(ctx context.Context, q string, maxResults string) (*googleBooksResponse, error) {
	params := url.Values{}
	params.Set("q", q)
	if maxResults != "" {
		params.Set("maxResults", maxResults)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var resp googleBooksResponse
	if err := getJSON(ctx, c.http, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, errors.Wrap(err, "google books")
	}
	return &resp, nil
}

// LookupByISBN prefers the volume whose ISBN-13 matches exactly and falls
// back to the first result otherwise.
func (c *GoogleBooksClient) LookupByISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	resp, err := c.query(ctx, "isbn:"+isbn, "")
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}

	for _, item := range resp.Items {
		if item.VolumeInfo.isbn13() == isbn {
			info := item.VolumeInfo.toBookInfo()
			return &info, nil
		}
	}
	info := resp.Items[0].VolumeInfo.toBookInfo()
	if info.ISBN == "" {
		info.ISBN = isbn
	}
	return &info, nil
}

// SearchByTitle keeps only volumes whose title contains the query, ignoring case.
func (c *GoogleBooksClient) SearchByTitle(ctx context.Context, title string) ([]BookInfo, error) {
	resp, err := c.query(ctx, "intitle:"+title, "20")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	results := make([]BookInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		if !strings.Contains(strings.ToLower(item.VolumeInfo.Title), needle) {
			continue
		}
		results = append(results, item.VolumeInfo.toBookInfo())
	}
	return results, nil
}
