package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is embedded by every persisted row: a surrogate key for joins and
// a stable uuid that is the only identifier exposed outside the service.
type Entity struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Entity) BeforeCreate(tx *gorm.DB) (err error) {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return
}

func GenerateUUID() string {
	return uuid.New().String()
}

// IsValidUUID reports whether s is a well formed external identifier.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
