package models

// User is an account record. Password holds a bcrypt hash and is never serialised.
type User struct {
	ID       string `gorm:"primaryKey;size:36"                 bson:"_id"      json:"id"`
	Username string `gorm:"uniqueIndex;size:255;not null"      bson:"username" json:"username"`
	Password string `gorm:"size:255;not null"                  bson:"password" json:"-"`
}

func (User) TableName() string { return "users" }

// UserInput carries the credential already hashed by the user service.
type UserInput struct {
	Username string
	Password string
}
