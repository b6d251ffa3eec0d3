package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"gin-inventory/clients"
	"gin-inventory/dto"
	"gin-inventory/models"
	"gin-inventory/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testISBN      = "9784088820118"
	otherTestISBN = "9784065212349"
)

type bookFixture struct {
	service IBookService
	catalog *mockCatalog
	ai      *mockChat
	storage *mockStorage
	user    *models.User
	other   *models.User
}

func newBookFixture(t *testing.T, withStorage bool) *bookFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &bookFixture{
		catalog: &mockCatalog{},
		ai:      &mockChat{},
		storage: &mockStorage{},
		user:    createUser(t, db, "alice"),
		other:   createUser(t, db, "bob"),
	}
	var storage clients.IObjectStorage
	if withStorage {
		storage = f.storage
	}
	f.service = NewBookService(repositories.NewBookRepository(db), f.catalog, f.ai, storage, zerolog.Nop())
	return f
}

func TestBookCreateAndOwnership(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()
	f.catalog.On("LookupByISBN", testISBN).Return(&clients.BookInfo{Title: "ONE PIECE 1", Categories: []string{"Comics"}}, nil)

	book, err := f.service.Create(ctx, dto.CreateBookInput{
		Title: "ONE PIECE 第1巻",
		ISBN:  strPtr("978-4-08-882011-8"),
	}, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStatusOwned, book.Status)
	require.NotNil(t, book.Volume)
	assert.Equal(t, "1", *book.Volume)
	require.NotNil(t, book.ISBN)
	assert.Equal(t, testISBN, *book.ISBN)
	assert.Equal(t, []string{"Comics"}, []string(book.Genres))

	_, err = f.service.Create(ctx, dto.CreateBookInput{Title: "again", ISBN: strPtr(testISBN)}, f.user.ID)
	requireHTTPError(t, err, http.StatusConflict)

	_, err = f.service.FindById(ctx, book.ID, f.other.ID)
	requireNotFound(t, err)
	_, err = f.service.Update(ctx, book.ID, f.other.ID, dto.UpdateBookInput{Title: strPtr("stolen")})
	requireNotFound(t, err)
	requireNotFound(t, f.service.Delete(ctx, book.ID, f.other.ID))

	require.NoError(t, f.service.Delete(ctx, book.ID, f.user.ID))
	_, err = f.service.FindById(ctx, book.ID, f.user.ID)
	requireNotFound(t, err)
}

func TestBookUpdatePreservesUnspecifiedFields(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()

	book, err := f.service.Create(ctx, dto.CreateBookInput{
		Title:     "Dune",
		Author:    "Frank Herbert",
		Publisher: "Chilton",
		Genres:    []string{"SF"},
	}, f.user.ID)
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, book.ID, f.user.ID, dto.UpdateBookInput{Title: strPtr("Dune Messiah")})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.Equal(t, "Chilton", updated.Publisher)
	assert.Equal(t, []string{"SF"}, []string(updated.Genres))

	reloaded, err := f.service.FindById(ctx, book.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", reloaded.Title)
	assert.Equal(t, "Frank Herbert", reloaded.Author)
}

func TestRegisterByISBN(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()
	f.catalog.On("LookupByISBN", testISBN).Return(&clients.BookInfo{
		Title:         "ONE PIECE 1",
		Authors:       []string{"尾田栄一郎"},
		Publisher:     "集英社",
		PublishedDate: "1997-12",
	}, nil)
	f.catalog.On("LookupByISBN", otherTestISBN).Return(nil, clients.ErrNotFound)

	_, _, err := f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: "9784088820119"}, f.user.ID)
	requireHTTPError(t, err, http.StatusBadRequest)

	_, _, err = f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: otherTestISBN}, f.user.ID)
	requireNotFound(t, err)

	book, created, err := f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN, Status: models.BookStatusWishlist}, f.user.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.BookStatusWishlist, book.Status)
	assert.Equal(t, "尾田栄一郎", book.Author)
	assert.Equal(t, models.NewDate(1997, 12, 1), book.PublishedDate)

	_, _, err = f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN, Status: models.BookStatusWishlist}, f.user.ID)
	requireHTTPError(t, err, http.StatusConflict)

	promoted, created, err := f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, f.user.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, book.ID, promoted.ID)
	assert.Equal(t, models.BookStatusOwned, promoted.Status)

	_, _, err = f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, f.user.ID)
	requireHTTPError(t, err, http.StatusConflict)

	// other users hold their own copy
	_, created, err = f.service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, f.other.ID)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestRegisterByTitleAndSearch(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()
	f.catalog.On("SearchByTitle", "Go").Return([]clients.BookInfo{
		{Title: "The Go Programming Language", ISBN: "9780134190440", PublishedDate: "2015"},
	}, nil)
	f.catalog.On("SearchByTitle", "nothing").Return([]clients.BookInfo{}, nil)

	book, err := f.service.RegisterByTitle(ctx, dto.RegisterByTitleInput{Title: " Go "}, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.Equal(t, models.NewDate(2015, 1, 1), book.PublishedDate)

	_, err = f.service.RegisterByTitle(ctx, dto.RegisterByTitleInput{Title: "nothing"}, f.user.ID)
	requireNotFound(t, err)

	_, err = f.service.Search(ctx, "  ")
	requireHTTPError(t, err, http.StatusBadRequest)

	results, err := f.service.Search(ctx, "Go")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBookFavoriteStatusAndWishlist(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()

	wish, err := f.service.AddToWishlist(ctx, dto.WishlistInput{
		Title:         "呪術廻戦 (3)",
		Authors:       []string{"芥見下々"},
		PublishedDate: "2019-03-04",
	}, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStatusWishlist, wish.Status)
	require.NotNil(t, wish.Volume)
	assert.Equal(t, "3", *wish.Volume)

	toggled, err := f.service.ToggleFavorite(ctx, wish.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)
	toggled, err = f.service.ToggleFavorite(ctx, wish.ID, f.user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)

	_, err = f.service.UpdateStatus(ctx, wish.ID, f.user.ID, "LOST")
	requireHTTPError(t, err, http.StatusBadRequest)

	owned, err := f.service.UpdateStatus(ctx, wish.ID, f.user.ID, models.BookStatusOwned)
	require.NoError(t, err)
	assert.Equal(t, models.BookStatusOwned, owned.Status)

	list, err := f.service.FindAll(ctx, f.user.ID, dto.BookFilter{Status: models.BookStatusWishlist})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecommend(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()

	_, err := f.service.Recommend(ctx, f.user.ID)
	requireNotFound(t, err)

	_, err = f.service.Create(ctx, dto.CreateBookInput{Title: "Dune", Author: "Frank Herbert"}, f.user.ID)
	require.NoError(t, err)

	f.ai.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Dune（Frank Herbert）")
	})).Return("Hyperion", nil).Once()
	resp, err := f.service.Recommend(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hyperion", resp.Recommendations)
	assert.Equal(t, []string{"Dune"}, resp.BasedOn)

	f.ai.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded")).Once()
	_, err = f.service.Recommend(ctx, f.user.ID)
	requireHTTPError(t, err, http.StatusBadGateway)
	f.ai.AssertExpectations(t)
}

func TestUploadCover(t *testing.T) {
	ctx := context.Background()

	disabled := newBookFixture(t, false)
	_, err := disabled.service.UploadCover(ctx, 1, disabled.user.ID, strings.NewReader("x"), "a.png", "image/png")
	requireHTTPError(t, err, http.StatusServiceUnavailable)
	_, err = disabled.service.UploadCover(ctx, 1, disabled.user.ID, strings.NewReader("x"), "a.txt", "text/plain")
	requireHTTPError(t, err, http.StatusBadRequest)

	f := newBookFixture(t, true)
	book, err := f.service.Create(ctx, dto.CreateBookInput{Title: "Dune"}, f.user.ID)
	require.NoError(t, err)

	_, err = f.service.UploadCover(ctx, book.ID, f.user.ID, strings.NewReader("x"), "a.txt", "text/plain")
	requireHTTPError(t, err, http.StatusBadRequest)

	f.storage.On("Upload", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "covers/") && strings.HasSuffix(key, ".png")
	}), "image/png").Return("https://cdn.example.com/covers/1/x.png", nil)

	updated, err := f.service.UploadCover(ctx, book.ID, f.user.ID, strings.NewReader("png"), "Cover.PNG", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/covers/1/x.png", updated.CoverImageURL)

	_, err = f.service.UploadCover(ctx, book.ID, f.other.ID, strings.NewReader("png"), "a.png", "image/png")
	requireNotFound(t, err)
}

// staleISBNRepository never sees an existing ISBN, as when two registrations
// run the lookup before either inserts.
type staleISBNRepository struct {
	repositories.IBookRepository
}

func (r staleISBNRepository) FindByISBN(ctx context.Context, userID uint, isbn string) (*models.Book, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestDuplicateISBNRejectedByIndex(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := createUser(t, db, "alice")
	other := createUser(t, db, "bob")
	catalog := &mockCatalog{}
	catalog.On("LookupByISBN", testISBN).Return(&clients.BookInfo{Title: "ONE PIECE 1"}, nil)
	service := NewBookService(staleISBNRepository{repositories.NewBookRepository(db)}, catalog, nil, nil, zerolog.Nop())

	_, created, err := service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, user.ID)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, user.ID)
	requireHTTPError(t, err, http.StatusConflict)
	assert.False(t, created)

	_, err = service.Create(ctx, dto.CreateBookInput{Title: "ONE PIECE", ISBN: strPtr(testISBN)}, user.ID)
	requireHTTPError(t, err, http.StatusConflict)

	second, err := service.Create(ctx, dto.CreateBookInput{Title: "Dune"}, user.ID)
	require.NoError(t, err)
	_, err = service.Update(ctx, second.ID, user.ID, dto.UpdateBookInput{ISBN: strPtr(testISBN)})
	requireHTTPError(t, err, http.StatusConflict)

	_, _, err = service.RegisterByISBN(ctx, dto.RegisterByISBNInput{ISBN: testISBN}, other.ID)
	assert.NoError(t, err)
}

func TestUpdateClearsISBN(t *testing.T) {
	f := newBookFixture(t, false)
	ctx := context.Background()
	f.catalog.On("LookupByISBN", mock.Anything).Return(nil, clients.ErrNotFound)

	first, err := f.service.Create(ctx, dto.CreateBookInput{Title: "Dune", ISBN: strPtr("9780134190440")}, f.user.ID)
	require.NoError(t, err)
	second, err := f.service.Create(ctx, dto.CreateBookInput{Title: "Dune Messiah", ISBN: strPtr("9784065212349")}, f.user.ID)
	require.NoError(t, err)

	for _, b := range []*models.Book{first, second} {
		updated, err := f.service.Update(ctx, b.ID, f.user.ID, dto.UpdateBookInput{ISBN: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.ISBN)
	}
}
