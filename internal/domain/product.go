package domain

import "time"

// Product is a single catalog item. Image bytes live in the object store;
// only the public URL is persisted here.
type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Category  string    `gorm:"size:100;not null;index" json:"category"`
	ImageURL  string    `gorm:"size:1024;not null" json:"imageUrl"`
	ImageKey  string    `gorm:"size:512" json:"-"` // object-store key, used for deletion and the orphan sweep
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
