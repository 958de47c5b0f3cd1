package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// RecipeIndexEntry is the unit stored in the vector index. CompoundID is
// unique per entry; multiple entries may share the same RecipeID prefix
// (variants/forks) but never the same full CompoundID. Content is the
// normalized text blob used for embedding; the remaining columns mirror the
// RecipeRecord fields used for filtering.
type RecipeIndexEntry struct {
	CompoundID  string           `gorm:"size:128;primary_key" json:"compound_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	RecipeID    string           `gorm:"size:64;index;not null" json:"recipe_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Tags        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	ServingSize int              `json:"serving_size"`
	OwnerID     string           `gorm:"size:64" json:"owner_id"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	Embedding   pgvector.Vector  `gorm:"type:vector(64)" json:"-"`
}

// TableName overrides the default pluralized table name.
func (RecipeIndexEntry) TableName() string {
	return "recipe_index_entries"
}
