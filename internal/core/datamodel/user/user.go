package user

import "time"

// User is the users table row. The db tags serve the sqlx repository, the gorm tags
// serve schema creation in tests.
type User struct {
	ID           int64     `db:"id" gorm:"primaryKey"`
	Email        string    `db:"email" gorm:"column:email;uniqueIndex;not null"`
	Name         string    `db:"name" gorm:"column:name;not null"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `db:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `db:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
