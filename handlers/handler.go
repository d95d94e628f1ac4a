package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/openshelf/backend/models"
)

const (
	// sessionMaxAgeSeconds is how long a session stays valid after the
	// user was last seen. The boundary is exclusive: a session exactly
	// this old is already expired.
	sessionMaxAgeSeconds = 3600

	emailCookie = "user-email"
	tokenCookie = "session-token"

	dateFormat = "2006-01-02"
)

// Handler owns the dependencies of every route: the database handle,
// the cookie codec and a clock. Nothing is reached through globals.
type Handler struct {
	DB        *gorm.DB
	Cookies   *securecookie.SecureCookie
	StaticDir string
	// Now is the clock used for session freshness and borrow dates,
	// replaceable in tests.
	Now func() time.Time
}

// New builds a Handler. The secret key only signs cookies, it does not
// encrypt them: tampering is detectable but the holder can read the
// contents.
func New(db *gorm.DB, secretKey, staticDir string) *Handler {
	return &Handler{
		DB:        db,
		Cookies:   securecookie.New([]byte(secretKey), nil),
		StaticDir: staticDir,
		Now:       time.Now,
	}
}

// RegisterRoutes attaches every route to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Home)
	router.GET("/home", h.Home)
	router.GET("/borrow_books", h.BorrowBooks)
	router.GET("/borrow_book/:id", h.BorrowBook)
	router.GET("/return_book/:id", h.ReturnBook)
	router.GET("/logout", h.Logout)
	router.GET("/register", h.ShowRegister)
	router.POST("/register", h.Register)
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)
	router.GET("/static/*filepath", h.StaticImage)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
}

// loggedInUser resolves the session cookies to a user. Called at the
// top of every route that requires authentication.
//
// The cookies must match a user that is logged in and was last seen
// less than an hour ago. On success the user's last-seen time is
// bumped to now. On failure the caller is redirected to the login
// page and the route must not write anything further.
func (h *Handler) loggedInUser(c *gin.Context) (*models.User, bool) {
	email, okEmail := h.readCookie(c, emailCookie)
	token, okToken := h.readCookie(c, tokenCookie)
	if !okEmail || !okToken || email == "" || token == "" {
		h.redirectToLogin(c)
		return nil, false
	}

	now := h.Now().Unix()
	var user models.User
	res := h.DB.
		Where("email = ? AND session_token = ? AND logged_in = ? AND ? - last_seen < ?",
			email, token, true, now, sessionMaxAgeSeconds).
		Limit(1).Find(&user)
	if res.Error != nil {
		log.Err(res.Error).Msg("failed to resolve session")
		h.redirectToLogin(c)
		return nil, false
	}
	if res.RowsAffected == 0 {
		// Never logged in, logged out, or inactive for over an hour.
		h.redirectToLogin(c)
		return nil, false
	}

	user.LastSeen = now
	if err := h.DB.Model(&user).Update("last_seen", now).Error; err != nil {
		log.Err(err).Msg("failed to update last seen")
	}
	return &user, true
}

// setLoggedIn marks the user as logged in with a fresh session token
// and sets the two signed session cookies. Shared by login and
// registration.
func (h *Handler) setLoggedIn(c *gin.Context, user *models.User) error {
	token, err := newSessionToken()
	if err != nil {
		return err
	}

	user.LoggedIn = true
	user.LastSeen = h.Now().Unix()
	user.SessionToken = token
	if err := h.DB.Save(user).Error; err != nil {
		return fmt.Errorf("failed to persist login state: %w", err)
	}

	if err := h.setCookie(c, emailCookie, user.Email); err != nil {
		return err
	}
	return h.setCookie(c, tokenCookie, token)
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (h *Handler) setCookie(c *gin.Context, name, value string) error {
	encoded, err := h.Cookies.Encode(name, value)
	if err != nil {
		return fmt.Errorf("failed to encode cookie %s: %w", name, err)
	}
	c.SetCookie(name, encoded, sessionMaxAgeSeconds, "/", "", false, true)
	return nil
}

func (h *Handler) readCookie(c *gin.Context, name string) (string, bool) {
	raw, err := c.Cookie(name)
	if err != nil {
		return "", false
	}
	var value string
	if err := h.Cookies.Decode(name, raw, &value); err != nil {
		log.Warn().Err(err).Str("cookie", name).Msg("failed to decode cookie")
		return "", false
	}
	return value, true
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetCookie(emailCookie, "", -1, "/", "", false, true)
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
}

func (h *Handler) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
