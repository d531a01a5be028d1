package models

// Request payloads sent to the backend. They are produced by the forms
// package after validation and passed through services to the API client.

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type LostReportInput struct {
	Title        string            `json:"title"`
	Category     string            `json:"category"`
	Description  string            `json:"description,omitempty"`
	LocationLost string            `json:"location_lost"`
	DateLost     string            `json:"date_lost"`
	Details      map[string]string `json:"details,omitempty"`
	ImageURLs    []string          `json:"image_urls,omitempty"`
}

type FoundItemInput struct {
	Title         string            `json:"title"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	LocationFound string            `json:"location_found"`
	DateFound     string            `json:"date_found"`
	Status        string            `json:"status,omitempty"`
	PublicDetails map[string]string `json:"public_details,omitempty"`
	HiddenDetails map[string]string `json:"hidden_details,omitempty"`
	ImageURLs     []string          `json:"image_urls,omitempty"`
}

type ClaimInput struct {
	FoundItemID string            `json:"found_item_id"`
	Details     map[string]string `json:"details"`
	ImageURLs   []string          `json:"image_urls,omitempty"`
}

// ClaimReview is the staff decision on a claim. A nil MatchPercentage leaves
// the server value unchanged.
type ClaimReview struct {
	Status          ClaimStatus `json:"status"`
	MatchPercentage *float64    `json:"match_percentage,omitempty"`
	StaffNotes      string      `json:"staff_notes,omitempty"`
}

// UserUpdate is an admin patch; nil fields are not sent.
type UserUpdate struct {
	IsActive *bool `json:"is_active,omitempty"`
	Role     *Role `json:"role,omitempty"`
}

type StaffInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthResponse is returned by login, registration and email verification.
// Token is empty when the backend relies on cookies only.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}
