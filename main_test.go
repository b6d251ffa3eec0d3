package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gin-inventory/clients"
	"gin-inventory/config"
	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/infra"
	"gin-inventory/models"
	"gin-inventory/repositories"
	"gin-inventory/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testISBN = "9784088820118"
	testJAN  = "4901201012341"
)

type stubCatalog struct{ mock.Mock }

func (m *stubCatalog) LookupByISBN(ctx context.Context, isbn string) (*clients.BookInfo, error) {
	args := m.Called(isbn)
	info, _ := args.Get(0).(*clients.BookInfo)
	return info, args.Error(1)
}

func (m *stubCatalog) SearchByTitle(ctx context.Context, title string) ([]clients.BookInfo, error) {
	args := m.Called(title)
	infos, _ := args.Get(0).([]clients.BookInfo)
	return infos, args.Error(1)
}

type stubBarcodes struct{ mock.Mock }

func (m *stubBarcodes) LookupJAN(ctx context.Context, code string) (*clients.Product, error) {
	args := m.Called(code)
	product, _ := args.Get(0).(*clients.Product)
	return product, args.Error(1)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *services.RealtimeHub
	clock  services.Clock
}

func newTestServer(t *testing.T, catalog clients.IBookCatalog, barcodes clients.IBarcodeLookup) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Env = "test"
	cfg.Auth.SecretKey = "router-test-secret-key"

	db, err := infra.SetupDB(config.DatabaseConfig{}, cfg.Env, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))

	mailer, err := clients.NewMailer(context.Background(), cfg.Mail, zerolog.Nop())
	require.NoError(t, err)

	if catalog == nil {
		catalog = &stubCatalog{}
	}
	if barcodes == nil {
		barcodes = &stubBarcodes{}
	}
	ec := externalClients{
		catalog:  catalog,
		barcodes: barcodes,
		recipes:  clients.NewRakutenRecipeClient("", "", time.Second),
		ai:       clients.NewOpenAIClient("", "", "", time.Second),
		mailer:   mailer,
	}

	hub := services.NewRealtimeHub()
	clock := services.SystemClock(cfg.Scheduler.Location())
	router, err := setupRouter(cfg, db, ec, hub, clock, zerolog.Nop())
	require.NoError(t, err)
	return &testServer{router: router, db: db, hub: hub, clock: clock}
}

func (s *testServer) do(t *testing.T, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, username string) (string, *models.User) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken, resp.User
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token, user := s.register(t, "alice")

	w := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decodeData(t, w, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrUsernameTaken)

	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "al", "email": "bad", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form := strings.NewReader("username=alice&password=password123")
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookRoutesOwnershipAndValidation(t *testing.T) {
	catalog := &stubCatalog{}
	catalog.On("LookupByISBN", testISBN).Return(&clients.BookInfo{Title: "ONE PIECE 1", Categories: []string{"Comics"}}, nil)
	s := newTestServer(t, catalog, nil)
	alice, _ := s.register(t, "alice")
	bob, _ := s.register(t, "bob")

	w := s.do(t, http.MethodPost, "/api/books", alice, gin.H{"title": "Dune", "isbn": "9784088820119"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "bad checksum")

	w = s.do(t, http.MethodPost, "/api/books", alice, gin.H{"title": "Dune", "status": "LOST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/books", alice, gin.H{"title": "Dune", "author": "Frank Herbert"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book models.Book
	decodeData(t, w, &book)

	path := fmt.Sprintf("/api/books/%d", book.ID)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, bob, gin.H{"title": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/books/abc", alice, nil).Code)

	w = s.do(t, http.MethodPut, path, alice, gin.H{"publisher": "Chilton"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &book)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "Chilton", book.Publisher)

	w = s.do(t, http.MethodPatch, path+"/favorite", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/books/favorites", alice, nil)
	var favorites []models.Book
	decodeData(t, w, &favorites)
	assert.Len(t, favorites, 1)

	w = s.do(t, http.MethodGet, "/api/books?q=dune", alice, nil)
	var found []models.Book
	decodeData(t, w, &found)
	assert.Len(t, found, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path+"/cover", alice, nil).Code, "cover file is required")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, alice, nil).Code)
}

func TestRegisterByISBNRoute(t *testing.T) {
	catalog := &stubCatalog{}
	catalog.On("LookupByISBN", testISBN).Return(&clients.BookInfo{Title: "ONE PIECE 1", PublishedDate: "1997-12-24"}, nil)
	s := newTestServer(t, catalog, nil)
	alice, _ := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/books/register-by-isbn", alice, gin.H{"isbn": "978-4-08-882011-8", "status": "WISHLIST"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/books/register-by-isbn", alice, gin.H{"isbn": testISBN, "status": "WISHLIST"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/books/register-by-isbn", alice, gin.H{"isbn": testISBN})
	require.Equal(t, http.StatusOK, w.Code)
	var book models.Book
	decodeData(t, w, &book)
	assert.Equal(t, models.BookStatusOwned, book.Status)
	assert.Equal(t, "1997-12-24", book.PublishedDate.String())

	w = s.do(t, http.MethodPost, "/api/books/register-by-isbn", alice, gin.H{"isbn": testISBN})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/books/register-by-isbn", alice, gin.H{"isbn": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFoodRoutes(t *testing.T) {
	barcodes := &stubBarcodes{}
	barcodes.On("LookupJAN", testJAN).Return(nil, clients.ErrNotFound)
	s := newTestServer(t, nil, barcodes)
	alice, _ := s.register(t, "alice")
	bob, _ := s.register(t, "bob")
	expires := s.clock.Today().AddDays(2).String()

	w := s.do(t, http.MethodPost, "/api/foods", alice, gin.H{
		"name": "牛乳", "category": "卵・乳製品", "quantity": 0, "expiration_date": expires,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/foods", alice, gin.H{
		"name": "牛乳", "category": "宇宙食", "quantity": 1, "expiration_date": expires,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/foods", alice, gin.H{
		"name": "牛乳", "category": "卵・乳製品", "quantity": 2, "expiration_date": expires,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var food models.FoodItem
	decodeData(t, w, &food)
	assert.Equal(t, models.FoodUnitPiece, food.Unit)

	path := fmt.Sprintf("/api/foods/%d", food.ID)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, bob, nil).Code)

	w = s.do(t, http.MethodGet, "/api/foods/expiring_soon?days=3", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var expiring []models.FoodItem
	decodeData(t, w, &expiring)
	assert.Len(t, expiring, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/foods/expiring_soon?days=-1", alice, nil).Code)

	w = s.do(t, http.MethodPost, path+"/use", alice, gin.H{"used_quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path+"/use", alice, gin.H{"used_quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var used dto.UseFoodResponse
	decodeData(t, w, &used)
	assert.True(t, used.Deleted)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/foods/barcode/"+testJAN, alice, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/foods/barcode/12345", alice, nil).Code)

	w = s.do(t, http.MethodGet, "/api/foods/options", alice, nil)
	var options dto.FoodOptions
	decodeData(t, w, &options)
	assert.Len(t, options.Units, 10)

	w = s.do(t, http.MethodGet, "/api/foods/recipe_suggestions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var suggestion dto.RecipeSuggestion
	decodeData(t, w, &suggestion)
	assert.Equal(t, dto.RecipeSourceNone, suggestion.Source)
}

func TestEmergencyDeleteRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil, nil)
	userToken, _ := s.register(t, "alice")
	adminToken, admin := s.register(t, "root")
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", admin.ID).Update("role", constants.RoleAdmin).Error)

	w := s.do(t, http.MethodPost, "/api/emergency", userToken, gin.H{"name": "保存水", "quantity": 12})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.EmergencyItem
	decodeData(t, w, &item)
	path := fmt.Sprintf("/api/emergency/%d", item.ID)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, adminToken, nil).Code, "stockpile is shared")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, userToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodDelete, path, "", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, userToken, nil).Code)
}

func TestNotificationRoutesAndStream(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token, user := s.register(t, "alice")

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/stream?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Connections(user.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	notifier := services.NewNotificationService(repositories.NewNotificationRepository(s.db), s.hub, zerolog.Nop())
	_, err = notifier.Notify(context.Background(), user.ID, "明日『新刊』が発売されます！")
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event dto.NotificationEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, dto.NotificationEventCreated, event.Type)
	require.NotNil(t, event.Notification)
	assert.Equal(t, "明日『新刊』が発売されます！", event.Notification.Message)

	w := s.do(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var messages []string
	decodeData(t, w, &messages)
	assert.Equal(t, []string{"明日『新刊』が発売されます！"}, messages)

	w = s.do(t, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", event.Notification.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/notifications", token, nil)
	decodeData(t, w, &messages)
	assert.Empty(t, messages)
}
