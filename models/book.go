package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookStatus string

const (
	BookStatusOwned    BookStatus = "OWNED"
	BookStatusWishlist BookStatus = "WISHLIST"
	BookStatusNotOwned BookStatus = "NOT_OWNED"
)

func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusOwned, BookStatusWishlist, BookStatusNotOwned:
		return true
	}
	return false
}

type Book struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"not null;index" json:"title"`
	Volume        *string                     `json:"volume"`
	Author        string                      `json:"author"`
	Publisher     string                      `json:"publisher"`
	CoverImageURL string                      `json:"cover_image_url"`
	PublishedDate Date                        `gorm:"index" json:"published_date"`
	Status        BookStatus                  `gorm:"not null;default:'OWNED';size:20" json:"status"`
	IsFavorite    bool                        `gorm:"not null;default:false" json:"is_favorite"`
	ISBN          *string                     `gorm:"index;size:13;uniqueIndex:idx_books_user_isbn,priority:2" json:"isbn"`
	Genres        datatypes.JSONSlice[string] `json:"genres"`
	UserID        uint                        `gorm:"not null;index;uniqueIndex:idx_books_user_isbn,priority:1,where:deleted_at IS NULL" json:"user_id"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}
