package forms

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

func writeImage(t *testing.T, name string, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o600))
	return p
}

func requireMessage(t *testing.T, err error, msg string) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, msg, ve.Message)
	return ve
}

func TestClaimForm_NoDetails(t *testing.T) {
	tests := []struct {
		name    string
		details []models.Detail
	}{
		{"nil", nil},
		{"blank pair", []models.Detail{{Key: "", Value: ""}}},
		{"whitespace only", []models.Detail{{Key: "  ", Value: "x"}, {Key: "color", Value: "   "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClaimForm{FoundItemID: "42", Details: tt.details}.Validate()
			requireMessage(t, err, "Please provide at least one identifying detail.")
		})
	}

	t.Run("missing item still reports details first", func(t *testing.T) {
		ve := requireMessage(t, ClaimForm{}.Validate(), MsgDetailsRequired)
		assert.Contains(t, ve.Fields, "found_item_id")
	})
}

func TestClaimForm_OK(t *testing.T) {
	f := ClaimForm{FoundItemID: " 42 ", Details: []models.Detail{{Key: "color", Value: "black"}, {Key: "", Value: "x"}}}
	require.NoError(t, f.Validate())

	in := f.Input([]string{"https://img/1.png"})
	assert.Equal(t, "42", in.FoundItemID)
	assert.Equal(t, map[string]string{"color": "black"}, in.Details)
	assert.Equal(t, []string{"https://img/1.png"}, in.ImageURLs)
}

func TestImages(t *testing.T) {
	ok := writeImage(t, "a.JPG", 10)
	big := writeImage(t, "big.png", MaxImageSize+1)
	txt := writeImage(t, "notes.txt", 10)

	require.NoError(t, ValidateImage(ok))
	assert.ErrorContains(t, ValidateImage(big), "smaller than 5MB")
	assert.ErrorContains(t, ValidateImage(txt), "only JPG, PNG, GIF and WEBP")
	assert.ErrorContains(t, ValidateImage(filepath.Join(t.TempDir(), "gone.png")), "cannot read file")

	six := []string{ok, ok, ok, ok, ok, ok}
	err := ClaimForm{FoundItemID: "1", Details: []models.Detail{{Key: "k", Value: "v"}}, Images: six}.Validate()
	requireMessage(t, err, "You can upload at most 5 images")
}

func TestLostReportForm(t *testing.T) {
	fixClock(t, time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC))

	valid := LostReportForm{Title: "Phone", Category: "electronics", Location: "Library", Date: "2024-06-10"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(f *LostReportForm)
		field string
		msg   string
	}{
		{"title", func(f *LostReportForm) { f.Title = " " }, "title", "Title is required"},
		{"bad date", func(f *LostReportForm) { f.Date = "10/06/2024" }, "date", "Date lost must be in YYYY-MM-DD format"},
		{"future date", func(f *LostReportForm) { f.Date = "2024-06-11" }, "date", "Date lost cannot be in the future"},
		{"long description", func(f *LostReportForm) { f.Description = strings.Repeat("a", 1001) }, "description",
			"Description must be at most 1000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			ve := requireMessage(t, f.Validate(), tt.msg)
			assert.Equal(t, tt.msg, ve.Fields[tt.field])
		})
	}
}

func TestFoundItemForm_Input(t *testing.T) {
	fixClock(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))

	f := FoundItemForm{Title: "Wallet", Category: "wallets", Location: "Gym", Date: "2024-06-01", Status: "available",
		PublicDetails: []models.Detail{{Key: "color", Value: "brown"}},
		HiddenDetails: []models.Detail{{Key: "cards", Value: "3"}}}
	require.NoError(t, f.Validate())

	in := f.Input(nil)
	assert.Equal(t, "AVAILABLE", in.Status)
	assert.Equal(t, map[string]string{"cards": "3"}, in.HiddenDetails)
	assert.Equal(t, "Gym", in.LocationFound)
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{FullName: "Ann Lee", Email: "ann@example.com", Phone: "+371 2000 0000",
		Password: "secret123", ConfirmPassword: "secret123"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		edit func(f *RegisterForm)
		msg  string
	}{
		{"email", func(f *RegisterForm) { f.Email = "ann@" }, "Please enter a valid email address"},
		{"email with name", func(f *RegisterForm) { f.Email = "Ann <ann@example.com>" }, "Please enter a valid email address"},
		{"short phone", func(f *RegisterForm) { f.Phone = "12345" }, "Please enter a valid phone number"},
		{"letters in phone", func(f *RegisterForm) { f.Phone = "12345abc" }, "Please enter a valid phone number"},
		{"weak password", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "password", "password" },
			"Password must be at least 8 characters and contain a letter and a number"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "secret124" }, "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			requireMessage(t, f.Validate(), tt.msg)
		})
	}
}

func TestVerifyEmailForm(t *testing.T) {
	require.NoError(t, VerifyEmailForm{Email: "a@example.com", Code: "123456"}.Validate())
	requireMessage(t, VerifyEmailForm{Email: "a@example.com", Code: "12345"}.Validate(), "Verification code must be 6 digits")
	requireMessage(t, VerifyEmailForm{Email: "a@example.com", Code: "12a456"}.Validate(), "Verification code must be 6 digits")
}

func TestPasswordForms(t *testing.T) {
	requireMessage(t, ChangePasswordForm{CurrentPassword: "secret123", NewPassword: "secret123", ConfirmPassword: "secret123"}.Validate(),
		"New password must differ from the current one")
	require.NoError(t, ChangePasswordForm{CurrentPassword: "old", NewPassword: "newpass99", ConfirmPassword: "newpass99"}.Validate())

	requireMessage(t, ResetPasswordForm{Password: "newpass99", ConfirmPassword: "newpass99"}.Validate(), "Reset token is required")
	require.NoError(t, ResetPasswordForm{Token: "t", Password: "newpass99", ConfirmPassword: "newpass99"}.Validate())
}

func TestClaimReviewForm(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	require.NoError(t, ClaimReviewForm{Status: "approved", MatchPercentage: pct(100)}.Validate())
	require.NoError(t, ClaimReviewForm{Status: "REJECTED"}.Validate())
	requireMessage(t, ClaimReviewForm{Status: "MAYBE"}.Validate(), "Status must be one of PENDING, APPROVED, REJECTED, COLLECTED")
	requireMessage(t, ClaimReviewForm{Status: "APPROVED", MatchPercentage: pct(100.5)}.Validate(),
		"Match percentage must be between 0 and 100")
	requireMessage(t, ClaimReviewForm{Status: "APPROVED", MatchPercentage: pct(-1)}.Validate(),
		"Match percentage must be between 0 and 100")
	requireMessage(t, ClaimReviewForm{Status: "APPROVED", MatchPercentage: pct(math.NaN())}.Validate(),
		"Match percentage must be between 0 and 100")

	r := ClaimReviewForm{Status: " collected ", Notes: " picked up "}.Review()
	assert.Equal(t, models.ClaimCollected, r.Status)
	assert.Equal(t, "picked up", r.StaffNotes)
}

func TestProfileAndStaffForms(t *testing.T) {
	require.NoError(t, ProfileForm{FullName: "Ann"}.Validate(), "phone is optional")
	requireMessage(t, ProfileForm{}.Validate(), "Full name is required")

	requireMessage(t, StaffForm{FullName: "S", Email: "s@example.com", Password: "short1"}.Validate(),
		"Password must be at least 8 characters and contain a letter and a number")
	require.NoError(t, StaffForm{FullName: "S", Email: "s@example.com", Password: "longer123"}.Validate())

	requireMessage(t, LoginForm{Email: "a@example.com"}.Validate(), "Password is required")
	requireMessage(t, EmailForm{}.Validate(), "Email is required")
}
