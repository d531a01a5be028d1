package client

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

// Client is the transport contract for the lost-and-found backend. Every
// method is a single fire-once request.
type Client interface {
	Ping(ctx context.Context) error
	SetToken(token string)
	Token() string

	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	VerifyEmail(ctx context.Context, email, code string) (*models.AuthResponse, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	ListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error)
	GetFoundItem(ctx context.Context, id string) (*models.FoundItem, error)

	ListLostReports(ctx context.Context) ([]models.LostReport, error)
	CreateLostReport(ctx context.Context, in models.LostReportInput) (*models.LostReport, error)
	UpdateLostReport(ctx context.Context, id string, in models.LostReportInput) (*models.LostReport, error)
	DeleteLostReport(ctx context.Context, id string) error
	ListMyClaims(ctx context.Context) ([]models.Claim, error)
	CreateClaim(ctx context.Context, in models.ClaimInput) (*models.Claim, error)

	StaffListFoundItems(ctx context.Context, q models.ListQuery) ([]models.FoundItem, error)
	CreateFoundItem(ctx context.Context, in models.FoundItemInput) (*models.FoundItem, error)
	UpdateFoundItem(ctx context.Context, id string, in models.FoundItemInput) (*models.FoundItem, error)
	StaffListClaims(ctx context.Context, q models.ListQuery) ([]models.Claim, error)
	ReviewClaim(ctx context.Context, id string, in models.ClaimReview) (*models.Claim, error)

	ListUsers(ctx context.Context, q models.ListQuery) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error)
	CreateStaff(ctx context.Context, in models.StaffInput) (*models.User, error)
}
