package models

import "time"

// DefaultAdTitle labels conversations whose listing can no longer be found.
const DefaultAdTitle = "آگهی"

type Ad struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	City        string    `json:"city" db:"city"`
	Phone       string    `json:"phone" db:"phone"`
	Images      []string  `json:"images" db:"images"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateAdRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	City        string   `json:"city"`
	Phone       string   `json:"phone"`
	Images      []string `json:"images"`
}
