package forms

import (
	"math"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

type LostReportForm struct {
	Title       string
	Category    string
	Description string
	Location    string
	Date        string
	Details     []models.Detail
	Images      []string
}

func (f LostReportForm) Validate() error {
	var c checker
	c.required("title", "Title", f.Title)
	c.required("category", "Category", f.Category)
	c.required("location", "Location", f.Location)
	c.date("date", "Date lost", f.Date)
	c.description("description", f.Description)
	c.images("images", f.Images)
	return c.err()
}

// Input builds the request body; imageURLs come from the uploader.
func (f LostReportForm) Input(imageURLs []string) models.LostReportInput {
	return models.LostReportInput{
		Title:        strings.TrimSpace(f.Title),
		Category:     strings.TrimSpace(f.Category),
		Description:  strings.TrimSpace(f.Description),
		LocationLost: strings.TrimSpace(f.Location),
		DateLost:     strings.TrimSpace(f.Date),
		Details:      models.DetailsToMap(f.Details),
		ImageURLs:    imageURLs,
	}
}

type FoundItemForm struct {
	Title         string
	Category      string
	Description   string
	Location      string
	Date          string
	Status        string
	PublicDetails []models.Detail
	HiddenDetails []models.Detail
	Images        []string
}

func (f FoundItemForm) Validate() error {
	var c checker
	c.required("title", "Title", f.Title)
	c.required("category", "Category", f.Category)
	c.required("location", "Location", f.Location)
	c.date("date", "Date found", f.Date)
	c.description("description", f.Description)
	c.images("images", f.Images)
	return c.err()
}

func (f FoundItemForm) Input(imageURLs []string) models.FoundItemInput {
	return models.FoundItemInput{
		Title:         strings.TrimSpace(f.Title),
		Category:      strings.TrimSpace(f.Category),
		Description:   strings.TrimSpace(f.Description),
		LocationFound: strings.TrimSpace(f.Location),
		DateFound:     strings.TrimSpace(f.Date),
		Status:        strings.ToUpper(strings.TrimSpace(f.Status)),
		PublicDetails: models.DetailsToMap(f.PublicDetails),
		HiddenDetails: models.DetailsToMap(f.HiddenDetails),
		ImageURLs:     imageURLs,
	}
}

type ClaimForm struct {
	FoundItemID string
	Details     []models.Detail
	Images      []string
}

// Validate checks the details first so an empty claim always reports
// MsgDetailsRequired.
func (f ClaimForm) Validate() error {
	var c checker
	if !filledDetails(f.Details) {
		c.fail("details", MsgDetailsRequired)
	}
	c.required("found_item_id", "Found item", f.FoundItemID)
	c.images("images", f.Images)
	return c.err()
}

func (f ClaimForm) Input(imageURLs []string) models.ClaimInput {
	return models.ClaimInput{
		FoundItemID: strings.TrimSpace(f.FoundItemID),
		Details:     models.DetailsToMap(f.Details),
		ImageURLs:   imageURLs,
	}
}

type ClaimReviewForm struct {
	Status          string
	MatchPercentage *float64
	Notes           string
}

func (f ClaimReviewForm) Validate() error {
	var c checker
	if !models.ClaimStatus(strings.ToUpper(strings.TrimSpace(f.Status))).Valid() {
		c.fail("status", "Status must be one of PENDING, APPROVED, REJECTED, COLLECTED")
	}
	if p := f.MatchPercentage; p != nil && (math.IsNaN(*p) || *p < 0 || *p > 100) {
		c.fail("match_percentage", "Match percentage must be between 0 and 100")
	}
	c.description("notes", f.Notes)
	return c.err()
}

func (f ClaimReviewForm) Review() models.ClaimReview {
	return models.ClaimReview{
		Status:          models.ClaimStatus(strings.ToUpper(strings.TrimSpace(f.Status))),
		MatchPercentage: f.MatchPercentage,
		StaffNotes:      strings.TrimSpace(f.Notes),
	}
}
