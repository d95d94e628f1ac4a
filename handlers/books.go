package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/openshelf/backend/models"
)

// bookView is a Book with the derived values the pages need: the
// aggregated author names and the computed return date.
type bookView struct {
	models.Book
	AuthorList string `json:"authorList"`
	ReturnDate string `json:"returnDate"`
}

func newBookView(b models.Book) bookView {
	return bookView{
		Book:       b,
		AuthorList: b.AuthorList(),
		ReturnDate: b.ReturnDate().Format(dateFormat),
	}
}

// Home handles GET / and /home: the logged-in user, today's date and
// the books the user currently has borrowed.
func (h *Handler) Home(c *gin.Context) {
	user, ok := h.loggedInUser(c)
	if !ok {
		return
	}

	var borrowed []models.Book
	err := h.DB.Preload("Authors").
		Where("borrowed_by_id = ?", user.ID).
		Order("title").
		Find(&borrowed).Error
	if err != nil {
		log.Err(err).Msg("failed to list borrowed books")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]bookView, 0, len(borrowed))
	for _, b := range borrowed {
		views = append(views, newBookView(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"today":         models.DateOf(h.Now()).Format(dateFormat),
		"borrowedBooks": views,
	})
}

// BorrowBooks handles GET /borrow_books: every book ordered by title
// with its authors and current borrower, minus the books the
// requesting user has already borrowed.
//
// A book borrowed by somebody else stays in the list; only the
// requester's own loans are filtered out.
func (h *Handler) BorrowBooks(c *gin.Context) {
	user, ok := h.loggedInUser(c)
	if !ok {
		return
	}

	var books []models.Book
	err := h.DB.Preload("Authors").Preload("BorrowedBy").
		Order("title").
		Find(&books).Error
	if err != nil {
		log.Err(err).Msg("failed to list books")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views := make([]bookView, 0, len(books))
	for _, b := range books {
		if b.BorrowedByID != nil && *b.BorrowedByID == user.ID {
			continue
		}
		views = append(views, newBookView(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"books": views,
	})
}

// BorrowBook handles GET /borrow_book/:id: borrow the book for the
// logged-in user and report how long it may be kept.
//
// There is deliberately no check that the book is free: two borrowers
// racing for the same book both succeed and the last write wins.
func (h *Handler) BorrowBook(c *gin.Context) {
	user, ok := h.loggedInUser(c)
	if !ok {
		return
	}

	book, ok := h.bookByParam(c)
	if !ok {
		return
	}

	today := models.DateOf(h.Now())
	book.BorrowedByID = &user.ID
	book.BorrowedAt = &today
	err := h.DB.Model(book).Updates(map[string]interface{}{
		"borrowed_by_id": user.ID,
		"borrowed_at":    today,
	}).Error
	if err != nil {
		log.Err(err).Msg("failed to borrow book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":              user,
		"book":              newBookView(*book),
		"allowedBorrowDays": models.AllowedBorrowDays,
	})
}

// ReturnBook handles GET /return_book/:id: clear the borrow state and
// go back home. Any logged-in user may return any borrowed book.
func (h *Handler) ReturnBook(c *gin.Context) {
	if _, ok := h.loggedInUser(c); !ok {
		return
	}

	book, ok := h.bookByParam(c)
	if !ok {
		return
	}

	err := h.DB.Model(book).Updates(map[string]interface{}{
		"borrowed_by_id": nil,
		"borrowed_at":    nil,
	}).Error
	if err != nil {
		log.Err(err).Msg("failed to return book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Redirect(http.StatusFound, "/home")
}

// bookByParam loads the book named by the :id route parameter, ending
// the request with a 404 when it does not exist.
func (h *Handler) bookByParam(c *gin.Context) (*models.Book, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found."})
		return nil, false
	}

	var book models.Book
	err = h.DB.Preload("Authors").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found."})
			return nil, false
		}
		log.Err(err).Msg("failed to load book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return &book, true
}
