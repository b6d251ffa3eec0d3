package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gin-inventory/clients"
	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/models"
	"gin-inventory/repositories"
	"gin-inventory/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type IBookService interface {
	FindAll(ctx context.Context, userID uint, filter dto.BookFilter) ([]models.Book, error)
	FindById(ctx context.Context, bookID uint, userID uint) (*models.Book, error)
	Create(ctx context.Context, input dto.CreateBookInput, userID uint) (*models.Book, error)
	Update(ctx context.Context, bookID uint, userID uint, input dto.UpdateBookInput) (*models.Book, error)
	Delete(ctx context.Context, bookID uint, userID uint) error
	RegisterByISBN(ctx context.Context, input dto.RegisterByISBNInput, userID uint) (*models.Book, bool, error)
	RegisterByTitle(ctx context.Context, input dto.RegisterByTitleInput, userID uint) (*models.Book, error)
	Lookup(ctx context.Context, isbn string) (*clients.BookInfo, error)
	Search(ctx context.Context, title string) ([]clients.BookInfo, error)
	ToggleFavorite(ctx context.Context, bookID uint, userID uint) (*models.Book, error)
	UpdateStatus(ctx context.Context, bookID uint, userID uint, status models.BookStatus) (*models.Book, error)
	AddToWishlist(ctx context.Context, input dto.WishlistInput, userID uint) (*models.Book, error)
	Recommend(ctx context.Context, userID uint) (*dto.RecommendationResponse, error)
	UploadCover(ctx context.Context, bookID uint, userID uint, file io.Reader, filename string, contentType string) (*models.Book, error)
}

type BookService struct {
	repository repositories.IBookRepository
	catalog    clients.IBookCatalog
	ai         clients.IChatCompleter
	storage    clients.IObjectStorage
	logger     zerolog.Logger
}

// NewBookService accepts a nil storage; cover uploads then answer 503.
func NewBookService(
	repository repositories.IBookRepository,
	catalog clients.IBookCatalog,
	ai clients.IChatCompleter,
	storage clients.IObjectStorage,
	logger zerolog.Logger,
) IBookService {
	return &BookService{
		repository: repository,
		catalog:    catalog,
		ai:         ai,
		storage:    storage,
		logger:     logger,
	}
}

func (s *BookService) FindAll(ctx context.Context, userID uint, filter dto.BookFilter) ([]models.Book, error) {
	return s.repository.FindAll(ctx, userID, repositories.BookFilter{
		Status:   filter.Status,
		Favorite: filter.Favorite,
		Genre:    filter.Genre,
		Query:    filter.Query,
	})
}

func (s *BookService) FindById(ctx context.Context, bookID uint, userID uint) (*models.Book, error) {
	book, err := s.repository.FindById(ctx, bookID, userID)
	if err != nil {
		return nil, notFoundOr(err, constants.ErrBookNotFound)
	}
	return book, nil
}

func (s *BookService) Create(ctx context.Context, input dto.CreateBookInput, userID uint) (*models.Book, error) {
	newBook := models.Book{
		Title:         strings.TrimSpace(input.Title),
		Volume:        input.Volume,
		Author:        input.Author,
		Publisher:     input.Publisher,
		CoverImageURL: input.CoverImageURL,
		Status:        input.Status,
		IsFavorite:    input.IsFavorite,
		Genres:        input.Genres,
		UserID:        userID,
	}
	if newBook.Status == "" {
		newBook.Status = models.BookStatusOwned
	}
	if newBook.Volume == nil {
		newBook.Volume = utils.ExtractVolume(newBook.Title)
	}
	if input.PublishedDate != nil {
		newBook.PublishedDate = *input.PublishedDate
	}

	if input.ISBN != nil && *input.ISBN != "" {
		isbn := utils.NormalizeISBN(*input.ISBN)
		if err := s.ensureUniqueISBN(ctx, userID, isbn); err != nil {
			return nil, err
		}
		newBook.ISBN = &isbn

		if len(newBook.Genres) == 0 {
			if info, err := s.catalog.LookupByISBN(ctx, isbn); err == nil {
				newBook.Genres = info.Categories
			}
		}
	}
	if newBook.Genres == nil {
		newBook.Genres = []string{}
	}
	return s.insert(ctx, newBook)
}

// insert relies on the (user_id, isbn) unique index to catch registrations
// racing past ensureUniqueISBN.
func (s *BookService) insert(ctx context.Context, book models.Book) (*models.Book, error) {
	created, err := s.repository.Create(ctx, book)
	if err != nil {
		return nil, conflictOr(err, constants.ErrDuplicateISBN)
	}
	return created, nil
}

func (s *BookService) ensureUniqueISBN(ctx context.Context, userID uint, isbn string) error {
	_, err := s.repository.FindByISBN(ctx, userID, isbn)
	if err == nil {
		return errs.NewConflictError(constants.ErrDuplicateISBN)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *BookService) Update(ctx context.Context, bookID uint, userID uint, input dto.UpdateBookInput) (*models.Book, error) {
	targetBook, err := s.FindById(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		targetBook.Title = strings.TrimSpace(*input.Title)
	}
	if input.Volume != nil {
		targetBook.Volume = input.Volume
	}
	if input.Author != nil {
		targetBook.Author = *input.Author
	}
	if input.Publisher != nil {
		targetBook.Publisher = *input.Publisher
	}
	if input.CoverImageURL != nil {
		targetBook.CoverImageURL = *input.CoverImageURL
	}
	if input.PublishedDate != nil {
		targetBook.PublishedDate = *input.PublishedDate
	}
	if input.Status != nil {
		targetBook.Status = *input.Status
	}
	if input.IsFavorite != nil {
		targetBook.IsFavorite = *input.IsFavorite
	}
	if input.Genres != nil {
		targetBook.Genres = *input.Genres
	}
	switch {
	case input.ISBN == nil:
	case *input.ISBN == "":
		// 空文字はISBNの削除
		targetBook.ISBN = nil
	default:
		isbn := utils.NormalizeISBN(*input.ISBN)
		if targetBook.ISBN == nil || *targetBook.ISBN != isbn {
			if err := s.ensureUniqueISBN(ctx, userID, isbn); err != nil {
				return nil, err
			}
		}
		targetBook.ISBN = &isbn
	}
	updated, err := s.repository.Update(ctx, *targetBook)
	if err != nil {
		return nil, conflictOr(err, constants.ErrDuplicateISBN)
	}
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, bookID uint, userID uint) error {
	return notFoundOr(s.repository.Delete(ctx, bookID, userID), constants.ErrBookNotFound)
}

// RegisterByISBN reports whether a new book was created. An existing
// wishlist entry is promoted to OWNED instead of being duplicated.
func (s *BookService) RegisterByISBN(ctx context.Context, input dto.RegisterByISBNInput, userID uint) (*models.Book, bool, error) {
	isbn := utils.NormalizeISBN(input.ISBN)
	if !utils.IsValidISBN13(isbn) {
		return nil, false, errs.NewBadRequestError(constants.ErrInvalidISBN)
	}
	status := input.Status
	if status == "" {
		status = models.BookStatusOwned
	}

	existing, err := s.repository.FindByISBN(ctx, userID, isbn)
	if err == nil {
		if existing.Status == models.BookStatusWishlist && status == models.BookStatusOwned {
			existing.Status = models.BookStatusOwned
			updated, err := s.repository.Update(ctx, *existing)
			return updated, false, err
		}
		return nil, false, errs.NewConflictError(constants.ErrDuplicateISBN)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	info, err := s.catalog.LookupByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, false, errs.NewNotFoundError(constants.ErrISBNNotFound)
		}
		return nil, false, err
	}

	newBook := bookFromInfo(*info, status, userID)
	newBook.ISBN = &isbn
	created, err := s.insert(ctx, newBook)
	return created, err == nil, err
}

func (s *BookService) RegisterByTitle(ctx context.Context, input dto.RegisterByTitleInput, userID uint) (*models.Book, error) {
	results, err := s.catalog.SearchByTitle(ctx, strings.TrimSpace(input.Title))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errs.NewNotFoundError(constants.ErrTitleNotFound)
	}
	status := input.Status
	if status == "" {
		status = models.BookStatusOwned
	}

	newBook := bookFromInfo(results[0], status, userID)
	if results[0].ISBN != "" {
		if err := s.ensureUniqueISBN(ctx, userID, results[0].ISBN); err != nil {
			return nil, err
		}
		isbn := results[0].ISBN
		newBook.ISBN = &isbn
	}
	return s.insert(ctx, newBook)
}

func bookFromInfo(info clients.BookInfo, status models.BookStatus, userID uint) models.Book {
	genres := info.Categories
	if genres == nil {
		genres = []string{}
	}
	return models.Book{
		Title:         info.Title,
		Volume:        utils.ExtractVolume(info.Title),
		Author:        strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		CoverImageURL: info.CoverImageURL,
		PublishedDate: utils.ParsePublishedDate(info.PublishedDate),
		Status:        status,
		Genres:        genres,
		UserID:        userID,
	}
}

func (s *BookService) Lookup(ctx context.Context, isbn string) (*clients.BookInfo, error) {
	isbn = utils.NormalizeISBN(isbn)
	if !utils.IsValidISBN13(isbn) {
		return nil, errs.NewBadRequestError(constants.ErrInvalidISBN)
	}
	info, err := s.catalog.LookupByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, errs.NewNotFoundError(constants.ErrISBNNotFound)
		}
		return nil, err
	}
	return info, nil
}

func (s *BookService) Search(ctx context.Context, title string) ([]clients.BookInfo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.NewBadRequestError("title is required")
	}
	return s.catalog.SearchByTitle(ctx, title)
}

func (s *BookService) ToggleFavorite(ctx context.Context, bookID uint, userID uint) (*models.Book, error) {
	book, err := s.FindById(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	book.IsFavorite = !book.IsFavorite
	return s.repository.Update(ctx, *book)
}

func (s *BookService) UpdateStatus(ctx context.Context, bookID uint, userID uint, status models.BookStatus) (*models.Book, error) {
	if !status.Valid() {
		return nil, errs.NewBadRequestError(constants.ErrInvalidStatus)
	}
	book, err := s.FindById(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	book.Status = status
	return s.repository.Update(ctx, *book)
}

func (s *BookService) AddToWishlist(ctx context.Context, input dto.WishlistInput, userID uint) (*models.Book, error) {
	info := clients.BookInfo{
		Title:         strings.TrimSpace(input.Title),
		Authors:       input.Authors,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		CoverImageURL: input.CoverImageURL,
		Categories:    input.Categories,
	}
	newBook := bookFromInfo(info, models.BookStatusWishlist, userID)

	if input.ISBN != nil && *input.ISBN != "" {
		isbn := utils.NormalizeISBN(*input.ISBN)
		if err := s.ensureUniqueISBN(ctx, userID, isbn); err != nil {
			return nil, err
		}
		newBook.ISBN = &isbn
	}
	return s.insert(ctx, newBook)
}

func (s *BookService) Recommend(ctx context.Context, userID uint) (*dto.RecommendationResponse, error) {
	books, err := s.repository.FindRecent(ctx, userID, constants.MaxRecommendationBooks)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, errs.NewNotFoundError(constants.ErrNoBooks)
	}

	titles := make([]string, 0, len(books))
	lines := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
		if b.Author != "" {
			lines = append(lines, fmt.Sprintf("- %s（%s）", b.Title, b.Author))
		} else {
			lines = append(lines, "- "+b.Title)
		}
	}

	prompt := "以下はユーザーが登録している本です。\n" +
		strings.Join(lines, "\n") +
		"\n\nこのユーザーが次に読むと良さそうな本を3冊、タイトルと著者、おすすめの理由を一言ずつ添えて日本語で提案してください。"
	reply, err := s.ai.Complete(ctx, "あなたは本のおすすめを行う書店員です。", prompt)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("book recommendation failed")
		return nil, errs.NewBadGatewayError(constants.ErrAIUnavailable)
	}
	return &dto.RecommendationResponse{Recommendations: reply, BasedOn: titles}, nil
}

func (s *BookService) UploadCover(ctx context.Context, bookID uint, userID uint, file io.Reader, filename string, contentType string) (*models.Book, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errs.NewBadRequestError(constants.ErrInvalidCover)
	}
	if s.storage == nil {
		return nil, errs.NewServiceUnavailableError(constants.ErrStorageDisabled)
	}
	book, err := s.FindById(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%d/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	coverURL, err := s.storage.Upload(ctx, key, file, contentType)
	if err != nil {
		s.logger.Error().Err(err).Uint("book_id", bookID).Msg("cover upload failed")
		return nil, errs.NewBadGatewayError("Failed to upload cover image")
	}
	book.CoverImageURL = coverURL
	return s.repository.Update(ctx, *book)
}
