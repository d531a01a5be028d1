package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/upload"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// StaffService manages found items and reviews claims.
type StaffService interface {
	ListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error)
	CreateFoundItem(ctx context.Context, f forms.FoundItemForm) (*models.FoundItem, error)
	UpdateFoundItem(ctx context.Context, id string, f forms.FoundItemForm) (*models.FoundItem, error)
	ListClaims(ctx context.Context, status string) ([]models.Claim, error)
	ReviewClaim(ctx context.Context, id string, f forms.ClaimReviewForm) (*models.Claim, error)
}

type staffService struct {
	client   client.Client
	uploader upload.Uploader
	log      logging.Logger
}

func NewStaffService(c client.Client, u upload.Uploader, log logging.Logger) StaffService {
	if log == nil {
		log = logging.Nop()
	}
	return &staffService{client: c, uploader: u, log: log}
}

func (s *staffService) ListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error) {
	return s.client.StaffListFoundItems(ctx, q)
}

func (s *staffService) CreateFoundItem(ctx context.Context, f forms.FoundItemForm) (*models.FoundItem, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	urls, err := uploadImages(ctx, s.uploader, s.log, f.Images)
	if err != nil {
		return nil, err
	}
	return s.client.CreateFoundItem(ctx, f.Input(urls))
}

func (s *staffService) UpdateFoundItem(ctx context.Context, id string, f forms.FoundItemForm) (*models.FoundItem, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	urls, err := uploadImages(ctx, s.uploader, s.log, f.Images)
	if err != nil {
		return nil, err
	}
	return s.client.UpdateFoundItem(ctx, id, f.Input(urls))
}

// ListClaims filters by status when it is non-empty.
func (s *staffService) ListClaims(ctx context.Context, status string) ([]models.Claim, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !models.ClaimStatus(status).Valid() {
		return nil, &forms.ValidationError{
			Message: "Status must be one of PENDING, APPROVED, REJECTED, COLLECTED",
			Fields:  map[string]string{"status": "invalid"},
		}
	}
	return s.client.StaffListClaims(ctx, models.ListQuery{Status: status})
}

func (s *staffService) ReviewClaim(ctx context.Context, id string, f forms.ClaimReviewForm) (*models.Claim, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c, err := s.client.ReviewClaim(ctx, id, f.Review())
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "claim reviewed", "claim_id", id, "status", c.Status)
	return c, nil
}
