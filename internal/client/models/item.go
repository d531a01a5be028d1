package models

import (
	"net/url"
	"strconv"
	"time"
)

// ClaimStatus is assigned by staff while reviewing a claim.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "PENDING"
	ClaimApproved  ClaimStatus = "APPROVED"
	ClaimRejected  ClaimStatus = "REJECTED"
	ClaimCollected ClaimStatus = "COLLECTED"
)

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected, ClaimCollected:
		return true
	}
	return false
}

// FoundItem is created by staff for an item recovered and awaiting claim.
// HiddenDetails is only returned to staff and admins.
type FoundItem struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	LocationFound string            `json:"location_found"`
	DateFound     string            `json:"date_found"`
	Status        string            `json:"status"`
	ImageURLs     []string          `json:"image_urls"`
	PublicDetails map[string]string `json:"public_details"`
	HiddenDetails map[string]string `json:"hidden_details,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// LostReport is filed by a general user describing an item they lost.
type LostReport struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	LocationLost string            `json:"location_lost"`
	DateLost     string            `json:"date_lost"`
	Details      map[string]string `json:"details"`
	ImageURLs    []string          `json:"image_urls"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Claim is a user's assertion of ownership over a found item.
type Claim struct {
	ID              string            `json:"id"`
	FoundItemID     string            `json:"found_item_id"`
	FoundItem       *FoundItem        `json:"found_item,omitempty"`
	UserID          string            `json:"user_id"`
	User            *User             `json:"user,omitempty"`
	Details         map[string]string `json:"details"`
	ImageURLs       []string          `json:"image_urls"`
	Status          ClaimStatus       `json:"status"`
	MatchPercentage float64           `json:"match_percentage"`
	StaffNotes      string            `json:"staff_notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ListQuery holds the optional filters accepted by list endpoints.
type ListQuery struct {
	Search   string
	Category string
	Status   string
	Page     int
	Limit    int
}

// Values encodes q, skipping zero fields.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
