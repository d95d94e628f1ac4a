package models

// User model for authentication. The email is the login name.
// Passwords are stored bcrypt-hashed; the session token is a random
// value regenerated on every login and carried in a signed cookie.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName    string `gorm:"not null" json:"firstName"`
	LastName     string `gorm:"not null" json:"lastName"`
	PasswordHash string `gorm:"not null" json:"-"`
	SessionToken string `gorm:"index" json:"-"`
	LoggedIn     bool   `gorm:"not null;default:false" json:"-"`
	// LastSeen is seconds since epoch, updated on login and on every
	// authenticated request.
	LastSeen int64 `json:"-"`
	IsAdmin  bool  `gorm:"not null;default:false" json:"-"`
}

func (User) TableName() string {
	return "users"
}
