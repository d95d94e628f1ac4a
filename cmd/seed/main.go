package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openshelf/backend/config"
	"github.com/openshelf/backend/database"
	"github.com/openshelf/backend/models"
)

type seedUser struct {
	email     string
	firstName string
	lastName  string
	password  string
	isAdmin   bool
}

var seedUsers = []seedUser{
	{"diaz.ayax@gmail.com", "Ayax", "Diaz", "chorizo", true},
	{"mustafa.sanli@gmail.com", "Mustafa", "Sanli", "1234", true},
}

type seedBook struct {
	title           string
	authors         []string
	publicationYear int
	averageRating   float64
	ratingsCount    int
	imageURL        string
}

var seedBooks = []seedBook{
	{"The Hunger Games", []string{"Suzanne Collins"}, 2008, 4.34, 4780653, "https://images.gr-assets.com/books/1447303603m/2767052.jpg"},
	{"Harry Potter and the Sorcerer's Stone", []string{"J.K. Rowling", "Mary GrandPré"}, 1997, 4.44, 4602479, "https://images.gr-assets.com/books/1474154022m/3.jpg"},
	{"Twilight", []string{"Stephenie Meyer"}, 2005, 3.57, 3866839, "https://images.gr-assets.com/books/1361039443m/41865.jpg"},
	{"To Kill a Mockingbird", []string{"Harper Lee"}, 1960, 4.25, 3198671, "https://images.gr-assets.com/books/1361975680m/2657.jpg"},
	{"The Great Gatsby", []string{"F. Scott Fitzgerald"}, 1925, 3.89, 2683664, "https://images.gr-assets.com/books/1490528560m/4671.jpg"},
	{"The Fault in Our Stars", []string{"John Green"}, 2012, 4.26, 2346404, "https://images.gr-assets.com/books/1360206420m/11870085.jpg"},
	{"The Hobbit", []string{"J.R.R. Tolkien"}, 1937, 4.25, 2071616, "https://images.gr-assets.com/books/1372847500m/5907.jpg"},
	{"The Catcher in the Rye", []string{"J.D. Salinger"}, 1951, 3.79, 2044241, "https://images.gr-assets.com/books/1398034300m/5107.jpg"},
	{"Pride and Prejudice", []string{"Jane Austen"}, 1813, 4.24, 2035490, "https://images.gr-assets.com/books/1320399351m/1885.jpg"},
	{"Angels & Demons", []string{"Dan Brown"}, 2000, 3.85, 2077983, "https://images.gr-assets.com/books/1303390735m/960.jpg"},
	{"The Da Vinci Code", []string{"Dan Brown"}, 2003, 3.79, 1447148, "https://images.gr-assets.com/books/1303252999m/968.jpg"},
	{"Good Omens", []string{"Terry Pratchett", "Neil Gaiman"}, 1990, 4.25, 517356, "https://images.gr-assets.com/books/1392528568m/12067.jpg"},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg := config.Load()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("users", len(seedUsers)).Int("books", len(seedBooks)).Msg("seeding completed")
}

// run drops and recreates the database file, then fills it with the
// initial users and catalog.
func run(cfg config.Config) error {
	db, err := database.Reset(cfg.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	for _, u := range seedUsers {
		if err := createUser(db, u); err != nil {
			return err
		}
	}

	for _, b := range seedBooks {
		if err := createBook(db, b); err != nil {
			return err
		}
	}
	return nil
}

func createUser(db *gorm.DB, u seedUser) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", u.email, err)
	}
	user := models.User{
		Email:        u.email,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		PasswordHash: string(hash),
		IsAdmin:      u.isAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.email, err)
	}
	return nil
}

func createBook(db *gorm.DB, b seedBook) error {
	// Authors are shared between books, so get-or-create by name.
	authors := make([]models.Author, 0, len(b.authors))
	for _, name := range b.authors {
		author, err := database.GetOrCreateAuthor(db, name)
		if err != nil {
			return err
		}
		authors = append(authors, author)
	}

	rating := b.averageRating
	book := models.Book{
		Title:           b.title,
		Authors:         authors,
		PublicationYear: b.publicationYear,
		AverageRating:   &rating,
		RatingsCount:    b.ratingsCount,
		ImageURL:        b.imageURL,
	}
	if err := db.Create(&book).Error; err != nil {
		return fmt.Errorf("failed to create book %q: %w", b.title, err)
	}
	return nil
}
