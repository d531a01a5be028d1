package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingUploader remembers how many requests the backend had seen when
// each upload happened.
type recordingUploader struct {
	env      *testEnv
	seen     []int
	fail     bool
	uploaded []string
}

func (u *recordingUploader) Upload(_ context.Context, path string) (string, error) {
	u.seen = append(u.seen, len(u.env.be.Requests("", "")))
	if u.fail {
		return "", errors.New("cloud unavailable")
	}
	u.uploaded = append(u.uploaded, path)
	return "https://cdn.example/" + filepath.Base(path), nil
}

func image(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("img"), 0o600))
	return p
}

func today() string {
	return time.Now().Format(forms.DateLayout)
}

func TestSubmitClaim_NoDetailsRejectedLocally(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleUser)
	up := &recordingUploader{env: e}
	svc := NewLostFoundService(e.api, up, nil)

	before := len(e.be.Requests("", ""))
	_, err := svc.SubmitClaim(context.Background(), forms.ClaimForm{
		FoundItemID: "item-1",
		Details:     []models.Detail{{Key: " ", Value: ""}},
		Images:      []string{image(t, "proof.png")},
	})

	require.EqualError(t, err, "Please provide at least one identifying detail.")
	assert.Len(t, e.be.Requests("", ""), before, "no network request")
	assert.Empty(t, up.seen, "no upload either")
}

func TestSubmitClaim_UploadsBeforeSubmitting(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleUser)
	itemID := e.be.AddFoundItem(models.FoundItem{Title: "Backpack"})
	up := &recordingUploader{env: e}
	svc := NewLostFoundService(e.api, up, nil)

	a, b := image(t, "a.png"), image(t, "b.jpg")
	claim, err := svc.SubmitClaim(context.Background(), forms.ClaimForm{
		FoundItemID: itemID,
		Details:     []models.Detail{{Key: "color", Value: "green"}},
		Images:      []string{a, b},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ClaimPending, claim.Status)
	assert.Equal(t, []string{"https://cdn.example/a.png", "https://cdn.example/b.jpg"}, claim.ImageURLs)
	assert.Equal(t, []string{a, b}, up.uploaded, "sequential, in order")
	assert.Equal(t, up.seen[0], up.seen[1], "uploads happen before the claim request")
	assert.Equal(t, 1, e.be.Count(http.MethodPost, "/user/claims"))
}

func TestReportLost_UploadFailureStopsSubmission(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleUser)
	svc := NewLostFoundService(e.api, &recordingUploader{env: e, fail: true}, nil)

	_, err := svc.ReportLost(context.Background(), forms.LostReportForm{
		Title: "Phone", Category: "electronics", Location: "Cafeteria", Date: today(),
		Images: []string{image(t, "phone.png")},
	})
	require.ErrorContains(t, err, "image upload failed")
	assert.Zero(t, e.be.Count(http.MethodPost, "/user/lost-reports"))
}

func TestLostReportLifecycle(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleUser)
	svc := NewLostFoundService(e.api, &recordingUploader{env: e}, nil)
	ctx := context.Background()

	reps, err := svc.MyLostReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reps)

	f := forms.LostReportForm{Title: "Keys", Category: "keys", Location: "Parking", Date: today(),
		Details: []models.Detail{{Key: "keychain", Value: "red"}}}
	rep, err := svc.ReportLost(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"keychain": "red"}, rep.Details)

	f.Title = "Car keys"
	rep, err = svc.UpdateLostReport(ctx, rep.ID, f)
	require.NoError(t, err)
	assert.Equal(t, "Car keys", rep.Title)

	require.NoError(t, svc.DeleteLostReport(ctx, rep.ID))
	reps, err = svc.MyLostReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reps)
}

func TestBrowseAndClaims(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleUser)
	svc := NewLostFoundService(e.api, &recordingUploader{env: e}, nil)
	ctx := context.Background()

	items, err := svc.BrowseFoundItems(ctx, models.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)

	id := e.be.AddFoundItem(models.FoundItem{Title: "Scarf", HiddenDetails: map[string]string{"brand": "X"}})
	it, err := svc.GetFoundItem(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, it.HiddenDetails)

	claims, err := svc.MyClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestStaffService(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleStaff)
	svc := NewStaffService(e.api, &recordingUploader{env: e}, nil)
	ctx := context.Background()

	it, err := svc.CreateFoundItem(ctx, forms.FoundItemForm{Title: "Laptop", Category: "electronics", Location: "Lab",
		Date: today(), HiddenDetails: []models.Detail{{Key: "serial", Value: "SN1"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"serial": "SN1"}, it.HiddenDetails)

	items, err := svc.ListFoundItems(ctx, models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SN1", items[0].HiddenDetails["serial"], "staff see hidden details")

	updated, err := svc.UpdateFoundItem(ctx, it.ID, forms.FoundItemForm{Title: "Laptop", Category: "electronics",
		Location: "Lab", Date: today(), Status: "claimed"})
	require.NoError(t, err)
	assert.Equal(t, "CLAIMED", updated.Status)

	claimID := e.be.AddClaim(models.Claim{FoundItemID: it.ID, UserID: "u1", Details: map[string]string{"serial": "SN1"}})

	_, err = svc.ListClaims(ctx, "bogus")
	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)

	pending, err := svc.ListClaims(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	pct := 150.0
	before := e.be.Count(http.MethodPatch, "/staff/claims/"+claimID)
	_, err = svc.ReviewClaim(ctx, claimID, forms.ClaimReviewForm{Status: "APPROVED", MatchPercentage: &pct})
	require.EqualError(t, err, "Match percentage must be between 0 and 100")
	assert.Equal(t, before, e.be.Count(http.MethodPatch, "/staff/claims/"+claimID))

	pct = 92
	c, err := svc.ReviewClaim(ctx, claimID, forms.ClaimReviewForm{Status: "approved", MatchPercentage: &pct, Notes: "ID matched"})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, c.Status)
	assert.Equal(t, "ID matched", c.StaffNotes)
}

func TestAdminService(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t, models.RoleAdmin)
	svc := NewAdminService(e.api, nil)
	ctx := context.Background()

	other := e.be.AddUser(models.User{Email: "zed@example.com", Role: models.RoleUser, IsActive: true}, "pw")

	u, err := svc.SetActive(ctx, other, false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	_, err = svc.SetRole(ctx, other, "owner")
	require.EqualError(t, err, "Role must be one of USER, STAFF, ADMIN")
	assert.Equal(t, 1, e.be.Count(http.MethodPatch, "/admin/users/"+other), "only the activation patch was sent")

	u, err = svc.SetRole(ctx, other, "staff")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, u.Role)

	_, err = svc.CreateStaff(ctx, forms.StaffForm{FullName: "S", Email: "bad"})
	require.Error(t, err)

	s, err := svc.CreateStaff(ctx, forms.StaffForm{FullName: "Sam", Email: "sam@example.com", Password: "staffpass1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, s.Role)

	users, err := svc.ListUsers(ctx, models.ListQuery{Search: "example.com"})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = svc.SetActive(ctx, "missing", true)
	require.Error(t, err)
}
