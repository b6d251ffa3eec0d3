package services

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"gin-inventory/clients"
	"gin-inventory/config"
	"gin-inventory/errs"
	"gin-inventory/infra"
	"gin-inventory/models"
	"gin-inventory/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.SetupDB(config.DatabaseConfig{}, "test", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := repositories.NewAuthRepository(db).CreateUser(context.Background(), models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     "user",
	})
	require.NoError(t, err)
	return user
}

func fixedClock(d models.Date) Clock {
	return func() time.Time { return d.Time }
}

func requireHTTPError(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, status, httpErr.Status, httpErr.Message)
	return httpErr
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	requireHTTPError(t, err, http.StatusNotFound)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) LookupByISBN(ctx context.Context, isbn string) (*clients.BookInfo, error) {
	args := m.Called(isbn)
	info, _ := args.Get(0).(*clients.BookInfo)
	return info, args.Error(1)
}

func (m *mockCatalog) SearchByTitle(ctx context.Context, title string) ([]clients.BookInfo, error) {
	args := m.Called(title)
	infos, _ := args.Get(0).([]clients.BookInfo)
	return infos, args.Error(1)
}

type mockChat struct{ mock.Mock }

func (m *mockChat) Complete(ctx context.Context, system string, prompt string) (string, error) {
	args := m.Called(system, prompt)
	return args.String(0), args.Error(1)
}

type mockBarcodes struct{ mock.Mock }

func (m *mockBarcodes) LookupJAN(ctx context.Context, code string) (*clients.Product, error) {
	args := m.Called(code)
	product, _ := args.Get(0).(*clients.Product)
	return product, args.Error(1)
}

type mockRecipes struct{ mock.Mock }

func (m *mockRecipes) SearchByIngredients(ctx context.Context, ingredients []string) ([]clients.RakutenRecipe, error) {
	args := m.Called(ingredients)
	recipes, _ := args.Get(0).([]clients.RakutenRecipe)
	return recipes, args.Error(1)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(key, contentType)
	return args.String(0), args.Error(1)
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type captureMailer struct {
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}
