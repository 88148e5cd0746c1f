package models

import "gorm.io/gorm"

// User is an administrative actor. The storefront itself has no accounts;
// buyers check out with an email address only.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:staff" json:"role"`
}

// Setting is one site-wide configuration row (currency, shipping thresholds,
// store name). Reads go through the settings cache; writes invalidate it.
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value string `gorm:"type:text"                     json:"value"`
}
