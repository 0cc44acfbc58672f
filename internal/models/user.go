package models

import (
	"regexp"
	"time"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

type User struct {
	ID        string    `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DisplayName is the label shown to the other party of a conversation.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Phone
}

// IsValidPhone reports whether phone is an Iranian mobile number, e.g. 09123456789.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

type AuthRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	OTP   string `json:"otp"`
	Step  string `json:"step"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}
