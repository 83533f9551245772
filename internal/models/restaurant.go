package models

import "time"

// Restaurant is owned by exactly one user and lists menu items.
type Restaurant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"owner_id"`
	Owner          *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name           string     `gorm:"size:255;uniqueIndex;not null" json:"name"`
	ProfilePicture string     `gorm:"size:512" json:"profile_picture"`
	Location       string     `gorm:"size:255;not null" json:"location"`
	Description    string     `gorm:"size:255" json:"description"`
	MenuItems      []MenuItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MenuItem belongs to one restaurant; its name is unique within that restaurant.
type MenuItem struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RestaurantID uint         `gorm:"not null;uniqueIndex:idx_menu_items_restaurant_name" json:"restaurant_id"`
	Restaurant   *Restaurant  `json:"restaurant,omitempty"`
	Name         string       `gorm:"size:200;not null;uniqueIndex:idx_menu_items_restaurant_name" json:"name"`
	Category     MenuCategory `gorm:"size:20;not null;index" json:"category"`
	Price        Money        `gorm:"type:decimal(7,2);not null" json:"price"`
	Description  string       `json:"description"`
	Image        string       `gorm:"size:512" json:"image"`
	Available    bool         `gorm:"not null;index" json:"available"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
