package models

import (
	"strings"
	"time"
)

// AllowedBorrowDays is the number of days a book may be kept before
// it is due back.
const AllowedBorrowDays = 30

// Author of one or more books. Kept as its own table rather than a
// column on Book so author-level queries stay possible. Names are
// deduplicated on import but not unique-constrained.
type Author struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index;not null" json:"name"`
}

func (Author) TableName() string {
	return "authors"
}

// Book in the catalog. A book is available exactly when BorrowedByID
// and BorrowedAt are both null; borrow and return always set or clear
// the two together.
type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"uniqueIndex;not null" json:"title"`
	Authors         []Author   `gorm:"many2many:book_authors" json:"authors,omitempty"`
	PublicationYear int        `gorm:"not null" json:"publicationYear"`
	AverageRating   *float64   `json:"averageRating,omitempty"`
	RatingsCount    int        `gorm:"not null;default:0" json:"ratingsCount"`
	ImageURL        string     `gorm:"not null" json:"imageUrl"`
	BorrowedByID    *uint      `gorm:"column:borrowed_by_id" json:"borrowedById,omitempty"`
	BorrowedBy      *User      `gorm:"foreignKey:BorrowedByID" json:"borrowedBy,omitempty"`
	BorrowedAt      *time.Time `json:"borrowedAt,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// ReturnDate reports when the book is due back: today if it is not
// borrowed, otherwise the borrow date plus AllowedBorrowDays.
func (b *Book) ReturnDate() time.Time {
	if b.BorrowedAt == nil {
		return Today()
	}
	return b.BorrowedAt.AddDate(0, 0, AllowedBorrowDays)
}

// AuthorList joins the loaded author names for display, in load order.
func (b *Book) AuthorList() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf truncates a timestamp to its date, midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// All lists every model for auto-migration.
var All = []any{&User{}, &Author{}, &Book{}}
