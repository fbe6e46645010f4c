package domain

import "time"

// SingletonID is the fixed primary key for the single-row page tables.
// Upserts target this key so a second row can never appear, even under
// concurrent first writes.
const SingletonID int64 = 1

// HomePage holds the two storefront banner slots. At most one row exists.
type HomePage struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Banner1    *string   `gorm:"size:1024" json:"banner1"`
	Banner1Key *string   `gorm:"size:512" json:"-"`
	Banner2    *string   `gorm:"size:1024" json:"banner2"`
	Banner2Key *string   `gorm:"size:512" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (HomePage) TableName() string {
	return "home_page"
}

// AboutPage is the marketing about-us content. At most one row exists.
type AboutPage struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	BannerURL            string    `gorm:"size:1024" json:"bannerUrl"`
	BannerKey            string    `gorm:"size:512" json:"-"`
	Title                string    `gorm:"size:200" json:"title"`
	Description1         string    `json:"description1"`
	Description2         string    `json:"description2"`
	Description3         string    `json:"description3"`
	WhatWeDoTitle        string    `gorm:"size:200" json:"whatWeDoTitle"`
	WhatWeDoDescription1 string    `json:"whatWeDoDescription1"`
	WhatWeDoDescription2 string    `json:"whatWeDoDescription2"`
	ImageURL             string    `gorm:"size:1024" json:"imageUrl"`
	ImageKey             string    `gorm:"size:512" json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (AboutPage) TableName() string {
	return "about_page"
}
