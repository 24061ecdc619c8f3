package model

// User mirrors the identity provider's account record. The assessment core
// only reads ID and UUID; profile data is owned elsewhere.
type User struct {
	Entity
	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100;uniqueIndex" json:"email"`
}

func (User) TableName() string {
	return "users"
}
