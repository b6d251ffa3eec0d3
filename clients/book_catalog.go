package clients

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BookInfo is catalog metadata for a single edition.
type BookInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	CoverImageURL string   `json:"cover_image_url"`
	ISBN          string   `json:"isbn"`
	Categories    []string `json:"categories"`
	Description   string   `json:"description,omitempty"`
	Source        string   `json:"source"`
}

type IBookCatalog interface {
	// LookupByISBN returns ErrNotFound when the catalog has no record.
	LookupByISBN(ctx context.Context, isbn string) (*BookInfo, error)
	SearchByTitle(ctx context.Context, title string) ([]BookInfo, error)
}

// FallbackCatalog asks each catalog in order and returns the first hit.
// Failing catalogs are logged and skipped.
type FallbackCatalog struct {
	catalogs []IBookCatalog
	logger   zerolog.Logger
}

func NewFallbackCatalog(logger zerolog.Logger, catalogs ...IBookCatalog) *FallbackCatalog {
	return &FallbackCatalog{catalogs: catalogs, logger: logger}
}

func (f *FallbackCatalog) LookupByISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	for _, c := range f.catalogs {
		info, err := c.LookupByISBN(ctx, isbn)
		if err == nil && info != nil {
			return info, nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			f.logger.Warn().Err(err).Str("isbn", isbn).Msg("book catalog lookup failed")
		}
	}
	return nil, ErrNotFound
}

func (f *FallbackCatalog) SearchByTitle(ctx context.Context, title string) ([]BookInfo, error) {
	for _, c := range f.catalogs {
		results, err := c.SearchByTitle(ctx, title)
		if err != nil {
			f.logger.Warn().Err(err).Str("title", title).Msg("book catalog search failed")
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}
	return []BookInfo{}, nil
}
