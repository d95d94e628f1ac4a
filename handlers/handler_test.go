package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/backend/database"
	"github.com/openshelf/backend/models"
)

// newTestHandler builds a Handler backed by a fresh database file in a
// temp dir, wired into a quiet gin engine.
func newTestHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "library.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	h := New(db, "test-secret-key", t.TempDir())
	router := gin.New()
	h.RegisterRoutes(router)
	return h, router
}

func createTestUser(t *testing.T, h *Handler, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	require.NoError(t, h.DB.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, h *Handler, title string, authors ...string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:           title,
		PublicationYear: 1999,
		ImageURL:        "https://example.com/" + url.PathEscape(title) + ".jpg",
	}
	for _, name := range authors {
		book.Authors = append(book.Authors, models.Author{Name: name})
	}
	require.NoError(t, h.DB.Create(book).Error)
	return book
}

// postForm sends a form-encoded POST without following redirects.
func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// login authenticates via POST /login and returns the session cookies.
func login(t *testing.T, router *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()
	w := postForm(router, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code, "login should redirect: %s", w.Body.String())
	require.Equal(t, "/home", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// at freezes the handler clock to the given instant.
func at(h *Handler, instant time.Time) {
	h.Now = func() time.Time { return instant }
}
