package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/upload"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// LostFoundService covers what a general user does: browse found items,
// report lost ones and claim.
type LostFoundService interface {
	BrowseFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error)
	GetFoundItem(ctx context.Context, id string) (*models.FoundItem, error)
	MyLostReports(ctx context.Context) ([]models.LostReport, error)
	ReportLost(ctx context.Context, f forms.LostReportForm) (*models.LostReport, error)
	UpdateLostReport(ctx context.Context, id string, f forms.LostReportForm) (*models.LostReport, error)
	DeleteLostReport(ctx context.Context, id string) error
	MyClaims(ctx context.Context) ([]models.Claim, error)
	SubmitClaim(ctx context.Context, f forms.ClaimForm) (*models.Claim, error)
}

type lostFoundService struct {
	client   client.Client
	uploader upload.Uploader
	log      logging.Logger
}

func NewLostFoundService(c client.Client, u upload.Uploader, log logging.Logger) LostFoundService {
	if log == nil {
		log = logging.Nop()
	}
	return &lostFoundService{client: c, uploader: u, log: log}
}

// uploadImages runs after validation and before the backend call.
func uploadImages(ctx context.Context, u upload.Uploader, log logging.Logger, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	log.Debug(ctx, "uploading images", "count", len(paths))
	urls, err := upload.UploadAll(ctx, u, paths)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	return urls, nil
}

func (s *lostFoundService) BrowseFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error) {
	return s.client.ListFoundItems(ctx, q)
}

func (s *lostFoundService) GetFoundItem(ctx context.Context, id string) (*models.FoundItem, error) {
	return s.client.GetFoundItem(ctx, id)
}

func (s *lostFoundService) MyLostReports(ctx context.Context) ([]models.LostReport, error) {
	return s.client.ListLostReports(ctx)
}

func (s *lostFoundService) ReportLost(ctx context.Context, f forms.LostReportForm) (*models.LostReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	urls, err := uploadImages(ctx, s.uploader, s.log, f.Images)
	if err != nil {
		return nil, err
	}
	return s.client.CreateLostReport(ctx, f.Input(urls))
}

func (s *lostFoundService) UpdateLostReport(ctx context.Context, id string, f forms.LostReportForm) (*models.LostReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	urls, err := uploadImages(ctx, s.uploader, s.log, f.Images)
	if err != nil {
		return nil, err
	}
	return s.client.UpdateLostReport(ctx, id, f.Input(urls))
}

func (s *lostFoundService) DeleteLostReport(ctx context.Context, id string) error {
	return s.client.DeleteLostReport(ctx, id)
}

func (s *lostFoundService) MyClaims(ctx context.Context) ([]models.Claim, error) {
	return s.client.ListMyClaims(ctx)
}

func (s *lostFoundService) SubmitClaim(ctx context.Context, f forms.ClaimForm) (*models.Claim, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	urls, err := uploadImages(ctx, s.uploader, s.log, f.Images)
	if err != nil {
		return nil, err
	}
	return s.client.CreateClaim(ctx, f.Input(urls))
}
