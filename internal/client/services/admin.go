package services

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/client/client"
	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/logging"
)

// AdminService manages accounts.
type AdminService interface {
	ListUsers(ctx context.Context, q models.ListQuery) ([]models.User, error)
	SetActive(ctx context.Context, id string, active bool) (*models.User, error)
	SetRole(ctx context.Context, id string, role string) (*models.User, error)
	CreateStaff(ctx context.Context, f forms.StaffForm) (*models.User, error)
}

type adminService struct {
	client client.Client
	log    logging.Logger
}

func NewAdminService(c client.Client, log logging.Logger) AdminService {
	if log == nil {
		log = logging.Nop()
	}
	return &adminService{client: c, log: log}
}

func (s *adminService) ListUsers(ctx context.Context, q models.ListQuery) ([]models.User, error) {
	return s.client.ListUsers(ctx, q)
}

func (s *adminService) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	u, err := s.client.UpdateUser(ctx, id, models.UserUpdate{IsActive: &active})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user activation changed", "user_id", id, "active", active)
	return u, nil
}

func (s *adminService) SetRole(ctx context.Context, id string, role string) (*models.User, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, &forms.ValidationError{
			Message: "Role must be one of USER, STAFF, ADMIN",
			Fields:  map[string]string{"role": "invalid"},
		}
	}
	u, err := s.client.UpdateUser(ctx, id, models.UserUpdate{Role: &r})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user role changed", "user_id", id, "role", r)
	return u, nil
}

func (s *adminService) CreateStaff(ctx context.Context, f forms.StaffForm) (*models.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.client.CreateStaff(ctx, f.Input())
}
