package repositories

import (
	"context"
	"strings"

	"gin-inventory/models"

	"gorm.io/gorm"
)

type BookFilter struct {
	Status   models.BookStatus
	Favorite *bool
	Genre    string
	Query    string
}

type IBookRepository interface {
	FindAll(ctx context.Context, userID uint, filter BookFilter) ([]models.Book, error)
	FindById(ctx context.Context, bookID uint, userID uint) (*models.Book, error)
	FindByISBN(ctx context.Context, userID uint, isbn string) (*models.Book, error)
	FindRecent(ctx context.Context, userID uint, limit int) ([]models.Book, error)
	FindReleasingOn(ctx context.Context, day models.Date) ([]models.Book, error)
	Create(ctx context.Context, newBook models.Book) (*models.Book, error)
	Update(ctx context.Context, book models.Book) (*models.Book, error)
	Delete(ctx context.Context, bookID uint, userID uint) error
}

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) IBookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) FindAll(ctx context.Context, userID uint, filter BookFilter) ([]models.Book, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Favorite != nil {
		query = query.Where("is_favorite = ?", *filter.Favorite)
	}
	if filter.Genre != "" {
		// genres is a JSON array column; match the quoted element
		query = query.Where(`CAST(genres AS TEXT) LIKE ? ESCAPE '\'`, "%\""+escapeLike(filter.Genre)+"\"%")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(escapeLike(q)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var books []models.Book
	result := query.Order("created_at DESC").Order("id DESC").Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}
	return books, nil
}

func (r *BookRepository) FindById(ctx context.Context, bookID uint, userID uint) (*models.Book, error) {
	var book models.Book
	result := r.db.WithContext(ctx).First(&book, "id = ? AND user_id = ?", bookID, userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &book, nil
}

func (r *BookRepository) FindByISBN(ctx context.Context, userID uint, isbn string) (*models.Book, error) {
	var book models.Book
	result := r.db.WithContext(ctx).First(&book, "user_id = ? AND isbn = ?", userID, isbn)
	if result.Error != nil {
		return nil, result.Error
	}
	return &book, nil
}

func (r *BookRepository) FindRecent(ctx context.Context, userID uint, limit int) ([]models.Book, error) {
	var books []models.Book
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}
	return books, nil
}

// FindReleasingOn returns every user's books published on day.
func (r *BookRepository) FindReleasingOn(ctx context.Context, day models.Date) ([]models.Book, error) {
	var books []models.Book
	result := r.db.WithContext(ctx).Where("published_date = ?", day).Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}
	return books, nil
}

func (r *BookRepository) Create(ctx context.Context, newBook models.Book) (*models.Book, error) {
	result := r.db.WithContext(ctx).Create(&newBook)
	if result.Error != nil {
		return nil, result.Error
	}
	return &newBook, nil
}

func (r *BookRepository) Update(ctx context.Context, book models.Book) (*models.Book, error) {
	result := r.db.WithContext(ctx).Save(&book)
	if result.Error != nil {
		return nil, result.Error
	}
	return &book, nil
}

func (r *BookRepository) Delete(ctx context.Context, bookID uint, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ? AND user_id = ?", bookID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
