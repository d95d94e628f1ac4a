package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openshelf/backend/models"
)

// loginForm echoes the entered values back alongside any error so the
// client can re-fill the form.
type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Error    string `json:"error"`
}

// registerForm is the registration equivalent of loginForm.
type registerForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Error     string `json:"error"`
}

// ShowLogin handles GET /login with an empty form.
func (h *Handler) ShowLogin(c *gin.Context) {
	c.JSON(http.StatusOK, loginForm{})
}

// Login handles POST /login.
//
// Both fields are required, checked email first. If present, the user
// is looked up by email and the password compared against the stored
// hash; unlike the session resolver, the initial login does not check
// last-seen freshness. A mismatch gets one generic message so the
// response never reveals which of the two was wrong.
func (h *Handler) Login(c *gin.Context) {
	form := loginForm{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	if form.Email == "" {
		form.Error = "Please enter an email address."
		c.JSON(http.StatusBadRequest, form)
		return
	}
	if form.Password == "" {
		form.Error = "Please enter a password."
		c.JSON(http.StatusBadRequest, form)
		return
	}

	var user models.User
	res := h.DB.Limit(1).Find(&user, "email = ?", form.Email)
	if res.Error != nil {
		log.Err(res.Error).Msg("failed to query user by email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if res.RowsAffected == 0 ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		form.Error = "Bad email/password. Please try again or Register."
		c.JSON(http.StatusUnauthorized, form)
		return
	}

	if err := h.setLoggedIn(c, &user); err != nil {
		log.Err(err).Msg("failed to log user in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

// ShowRegister handles GET /register with an empty form.
func (h *Handler) ShowRegister(c *gin.Context) {
	c.JSON(http.StatusOK, registerForm{})
}

// Register handles POST /register.
//
// Fields are validated in a fixed order (first name, last name, email,
// password); the first missing field wins and all entered values are
// echoed back. A duplicate email is reported with a hint to log in
// instead. On success the new user is immediately logged in.
func (h *Handler) Register(c *gin.Context) {
	form := registerForm{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
	}
	if form.FirstName == "" {
		form.Error = "Please enter a First Name."
		c.JSON(http.StatusBadRequest, form)
		return
	}
	if form.LastName == "" {
		form.Error = "Please enter a Last Name."
		c.JSON(http.StatusBadRequest, form)
		return
	}
	if form.Email == "" {
		form.Error = "Please enter an email address."
		c.JSON(http.StatusBadRequest, form)
		return
	}
	if form.Password == "" {
		form.Error = "Please enter a password."
		c.JSON(http.StatusBadRequest, form)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := models.User{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			form.Error = fmt.Sprintf("User with email %s already registered. Please login instead", form.Email)
			c.JSON(http.StatusConflict, form)
			return
		}
		log.Err(err).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.setLoggedIn(c, &user); err != nil {
		log.Err(err).Msg("failed to log new user in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

// Logout handles GET /logout: mark the user logged out and send them
// to the login page.
func (h *Handler) Logout(c *gin.Context) {
	user, ok := h.loggedInUser(c)
	if !ok {
		return
	}

	user.LoggedIn = false
	if err := h.DB.Model(user).Update("logged_in", false).Error; err != nil {
		log.Err(err).Msg("failed to log user out")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.clearSessionCookies(c)
	c.Redirect(http.StatusFound, "/login")
}
