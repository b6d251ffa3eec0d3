package dto

import "gin-inventory/models"

type CreateBookInput struct {
	Title         string            `json:"title" binding:"required"`
	Volume        *string           `json:"volume"`
	Author        string            `json:"author"`
	Publisher     string            `json:"publisher"`
	CoverImageURL string            `json:"cover_image_url" binding:"omitempty,url"`
	PublishedDate *models.Date      `json:"published_date"`
	Status        models.BookStatus `json:"status" binding:"omitempty,book_status"`
	IsFavorite    bool              `json:"is_favorite"`
	ISBN          *string           `json:"isbn" binding:"omitempty,isbn13"`
	Genres        []string          `json:"genres"`
}

type UpdateBookInput struct {
	Title         *string            `json:"title" binding:"omitempty,min=1"`
	Volume        *string            `json:"volume"`
	Author        *string            `json:"author"`
	Publisher     *string            `json:"publisher"`
	CoverImageURL *string            `json:"cover_image_url" binding:"omitempty,url"`
	PublishedDate *models.Date       `json:"published_date"`
	Status        *models.BookStatus `json:"status" binding:"omitempty,book_status"`
	IsFavorite    *bool              `json:"is_favorite"`
	ISBN          *string            `json:"isbn" binding:"omitempty,isbn13"`
	Genres        *[]string          `json:"genres"`
}

type BookFilter struct {
	Status   models.BookStatus `form:"status" binding:"omitempty,book_status"`
	Favorite *bool             `form:"favorite"`
	Genre    string            `form:"genre"`
	Query    string            `form:"q"`
}

// RegisterByISBNInput is validated against the ISBN-13 checksum by the service
// so the client gets a specific message.
type RegisterByISBNInput struct {
	ISBN   string            `json:"isbn" binding:"required"`
	Status models.BookStatus `json:"status" binding:"omitempty,book_status"`
}

type RegisterByTitleInput struct {
	Title  string            `json:"title" binding:"required"`
	Status models.BookStatus `json:"status" binding:"omitempty,book_status"`
}

type WishlistInput struct {
	Title         string   `json:"title" binding:"required"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	CoverImageURL string   `json:"cover_image_url"`
	PublishedDate string   `json:"published_date"`
	ISBN          *string  `json:"isbn" binding:"omitempty,isbn13"`
	Categories    []string `json:"categories"`
}

type UpdateStatusInput struct {
	Status models.BookStatus `json:"status" binding:"required,book_status"`
}

type RecommendationResponse struct {
	Recommendations string   `json:"recommendations"`
	BasedOn         []string `json:"based_on"`
}
