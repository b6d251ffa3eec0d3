package controllers

import (
	"net/http"

	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/models"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
)

const maxCoverSize = 5 << 20

type IBookController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	RegisterByISBN(ctx *gin.Context)
	RegisterByTitle(ctx *gin.Context)
	Lookup(ctx *gin.Context)
	Search(ctx *gin.Context)
	ToggleFavorite(ctx *gin.Context)
	UpdateStatus(ctx *gin.Context)
	Wishlist(ctx *gin.Context)
	AddToWishlist(ctx *gin.Context)
	Favorites(ctx *gin.Context)
	Recommendations(ctx *gin.Context)
	UploadCover(ctx *gin.Context)
}

type BookController struct {
	service services.IBookService
}

func NewBookController(service services.IBookService) IBookController {
	return &BookController{service: service}
}

func (c *BookController) FindAll(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var filter dto.BookFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		respondBindError(ctx, err)
		return
	}
	c.list(ctx, user.ID, filter)
}

func (c *BookController) list(ctx *gin.Context, userID uint, filter dto.BookFilter) {
	books, err := c.service.FindAll(ctx.Request.Context(), userID, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": books})
}

func (c *BookController) FindById(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	book, err := c.service.FindById(ctx.Request.Context(), bookID, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": book})
}

func (c *BookController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.CreateBookInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	newBook, err := c.service.Create(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": newBook})
}

func (c *BookController) Update(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateBookInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	updatedBook, err := c.service.Update(ctx.Request.Context(), bookID, user.ID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": updatedBook})
}

func (c *BookController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), bookID, user.ID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// RegisterByISBN answers 201 for a new book and 200 when an existing
// wishlist entry was moved to OWNED.
func (c *BookController) RegisterByISBN(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.RegisterByISBNInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	book, created, err := c.service.RegisterByISBN(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, gin.H{"data": book})
}

func (c *BookController) RegisterByTitle(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.RegisterByTitleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	book, err := c.service.RegisterByTitle(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": book})
}

func (c *BookController) Lookup(ctx *gin.Context) {
	info, err := c.service.Lookup(ctx.Request.Context(), ctx.Param("isbn"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": info})
}

func (c *BookController) Search(ctx *gin.Context) {
	results, err := c.service.Search(ctx.Request.Context(), ctx.Query("title"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": results})
}

func (c *BookController) ToggleFavorite(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	book, err := c.service.ToggleFavorite(ctx.Request.Context(), bookID, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": book})
}

func (c *BookController) UpdateStatus(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	var input dto.UpdateStatusInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	book, err := c.service.UpdateStatus(ctx.Request.Context(), bookID, user.ID, input.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": book})
}

func (c *BookController) Wishlist(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	c.list(ctx, user.ID, dto.BookFilter{Status: models.BookStatusWishlist})
}

func (c *BookController) AddToWishlist(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var input dto.WishlistInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	book, err := c.service.AddToWishlist(ctx.Request.Context(), input, user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": book})
}

func (c *BookController) Favorites(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	favorite := true
	c.list(ctx, user.ID, dto.BookFilter{Favorite: &favorite})
}

func (c *BookController) Recommendations(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.Recommend(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

func (c *BookController) UploadCover(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	bookID, ok := parseID(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("cover")
	if err != nil {
		respondError(ctx, errs.NewBadRequestError("cover file is required"))
		return
	}
	if fileHeader.Size > maxCoverSize {
		respondError(ctx, errs.NewBadRequestError("cover file is too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer file.Close()

	book, err := c.service.UploadCover(
		ctx.Request.Context(), bookID, user.ID, file,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": book})
}
