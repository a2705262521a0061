package dto

import "time"

// CategoryRequest payload for category create/update.
type CategoryRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// CategoryResponse is the serialized category.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
