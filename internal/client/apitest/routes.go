package apitest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey struct{}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record, b.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", b.handleRegister)
			r.Post("/verify-email", b.handleVerifyEmail)
			r.Post("/resend-verification", b.handleResend)
			r.Post("/login", b.handleLogin)
			r.Post("/forgot-password", b.handleForgotPassword)
			r.Post("/reset-password", b.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(b.requireRole())
				r.Post("/logout", b.handleLogout)
				r.Get("/profile", b.handleProfile)
				r.Patch("/profile", b.handleUpdateProfile)
				r.Post("/change-password", b.handleChangePassword)
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/found-items", b.handlePublicFoundItems)
			r.Get("/found-items/{id}", b.handlePublicFoundItem)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(b.requireRole())
			r.Get("/lost-reports", b.handleListLostReports)
			r.Post("/lost-reports", b.handleCreateLostReport)
			r.Patch("/lost-reports/{id}", b.handleUpdateLostReport)
			r.Delete("/lost-reports/{id}", b.handleDeleteLostReport)
			r.Get("/claims", b.handleListMyClaims)
			r.Post("/claims", b.handleCreateClaim)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(b.requireRole(models.RoleStaff, models.RoleAdmin))
			r.Get("/found-items", b.handleStaffFoundItems)
			r.Post("/found-items", b.handleCreateFoundItem)
			r.Patch("/found-items/{id}", b.handleUpdateFoundItem)
			r.Get("/claims", b.handleStaffClaims)
			r.Patch("/claims/{id}", b.handleReviewClaim)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(b.requireRole(models.RoleAdmin))
			r.Get("/users", b.handleListUsers)
			r.Patch("/users/{id}", b.handleUpdateUser)
			r.Post("/staff", b.handleCreateStaff)
		})
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:    r.Method,
			Path:      strings.TrimPrefix(r.URL.Path, "/api"),
			Header:    r.Header.Clone(),
			Body:      body,
			RequestID: r.Header.Get("X-Request-ID"),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		b.mu.Unlock()
		if ok {
			if f.message == "" {
				w.WriteHeader(f.status)
				return
			}
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole authenticates the caller and, when roles are given, checks
// membership.
func (b *Backend) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := b.currentUser(r)
			if u == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, u.Role.Normalize()) {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
		})
	}
}

func userFrom(r *http.Request) *models.User {
	u, _ := r.Context().Value(ctxKey{}).(*models.User)
	return u
}

func (b *Backend) setSession(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: tok, Path: "/", HttpOnly: true})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.passwords[in.Email]; ok {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	u := &models.User{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	b.users[u.ID] = u
	b.setPasswordLocked(u.Email, in.Password)
	b.codes[u.Email] = "123456"
	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "Registration successful. Please check your email for the verification code.",
		User:    u.Clone(),
	})
}

func (b *Backend) userByEmailLocked(email string) *models.User {
	for _, u := range b.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (b *Backend) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Code string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userByEmailLocked(in.Email)
	if u == nil || b.codes[in.Email] == "" || b.codes[in.Email] != in.Code {
		writeError(w, http.StatusBadRequest, "Invalid or expired verification code")
		return
	}
	delete(b.codes, in.Email)
	u.EmailVerified = true
	tok := b.issueTokenLocked(u.ID)
	b.setSession(w, tok)
	writeJSON(w, http.StatusOK, models.AuthResponse{Message: "Email verified", Token: tok, User: u.Clone()})
}

func (b *Backend) handleResend(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userByEmailLocked(in.Email)
	if u == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if u.EmailVerified {
		writeError(w, http.StatusBadRequest, "Email already verified")
		return
	}
	b.codes[in.Email] = "654321"
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.userByEmailLocked(in.Email)
	if u == nil || !b.passwordMatchesLocked(u.Email, in.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	// Deactivated accounts still authenticate here; the client rejects them.
	tok := b.issueTokenLocked(u.ID)
	b.setSession(w, tok)
	writeJSON(w, http.StatusOK, models.AuthResponse{Message: "Login successful", Token: tok, User: u.Clone()})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, tok := b.currentUser(r)
	b.mu.Lock()
	delete(b.sessions, tok)
	b.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": userFrom(r)})
}

func (b *Backend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[userFrom(r).ID]
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u.Clone()})
}

func (b *Backend) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := userFrom(r)
	if !b.passwordMatchesLocked(u.Email, in.CurrentPassword) {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	b.setPasswordLocked(u.Email, in.NewPassword)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (b *Backend) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	b.mu.Lock()
	if b.userByEmailLocked(in.Email) != nil {
		b.codes["reset:"+in.Email] = "reset-" + in.Email
	}
	b.mu.Unlock()
	// Same answer for unknown emails.
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a reset link has been sent"})
}

// ResetToken returns the password reset token issued for email.
func (b *Backend) ResetToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes["reset:"+email]
}

func (b *Backend) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct{ Token, Password string }
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range b.codes {
		if strings.HasPrefix(k, "reset:") && v == in.Token {
			b.setPasswordLocked(strings.TrimPrefix(k, "reset:"), in.Password)
			delete(b.codes, k)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
			return
		}
	}
	writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
}

func matches(it models.FoundItem, q models.ListQuery) bool {
	if q.Search != "" {
		s := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(it.Title), s) && !strings.Contains(strings.ToLower(it.Description), s) {
			return false
		}
	}
	if q.Category != "" && !strings.EqualFold(it.Category, q.Category) {
		return false
	}
	if q.Status != "" && !strings.EqualFold(it.Status, q.Status) {
		return false
	}
	return true
}

// defaultPageSize applies to found-item lists without an explicit limit.
const defaultPageSize = 20

func queryOf(r *http.Request) models.ListQuery {
	v := r.URL.Query()
	q := models.ListQuery{Search: v.Get("search"), Category: v.Get("category"), Status: v.Get("status")}
	q.Page, _ = strconv.Atoi(v.Get("page"))
	q.Limit, _ = strconv.Atoi(v.Get("limit"))
	return q
}

func paginate[T any](all []T, page, limit int) []T {
	if limit <= 0 {
		limit = defaultPageSize
	}
	start := (max(page, 1) - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	return all[start:min(start+limit, len(all))]
}

func (b *Backend) listFoundItems(q models.ListQuery, withHidden bool) []models.FoundItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.FoundItem{}
	for _, it := range b.foundItems {
		if !matches(it, q) {
			continue
		}
		if !withHidden {
			it.HiddenDetails = nil
		}
		out = append(out, it)
	}
	return paginate(out, q.Page, q.Limit)
}

func (b *Backend) handlePublicFoundItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.listFoundItems(queryOf(r), false))
}

func (b *Backend) handlePublicFoundItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range b.foundItems {
		if it.ID == id {
			it.HiddenDetails = nil
			writeJSON(w, http.StatusOK, it)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Item not found")
}

func (b *Backend) handleListLostReports(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]models.LostReport{}, b.lostReports[userFrom(r).ID]...)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleCreateLostReport(w http.ResponseWriter, r *http.Request) {
	var in models.LostReportInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rep := models.LostReport{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Category:     in.Category,
		Description:  in.Description,
		LocationLost: in.LocationLost,
		DateLost:     in.DateLost,
		Details:      in.Details,
		ImageURLs:    in.ImageURLs,
		Status:       "OPEN",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	b.mu.Lock()
	uid := userFrom(r).ID
	b.lostReports[uid] = append(b.lostReports[uid], rep)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, rep)
}

func (b *Backend) handleUpdateLostReport(w http.ResponseWriter, r *http.Request) {
	var in models.LostReportInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	reps := b.lostReports[userFrom(r).ID]
	for i := range reps {
		if reps[i].ID != id {
			continue
		}
		rep := &reps[i]
		rep.Title = in.Title
		rep.Category = in.Category
		rep.Description = in.Description
		rep.LocationLost = in.LocationLost
		rep.DateLost = in.DateLost
		rep.Details = in.Details
		if len(in.ImageURLs) > 0 {
			rep.ImageURLs = in.ImageURLs
		}
		writeJSON(w, http.StatusOK, *rep)
		return
	}
	writeError(w, http.StatusNotFound, "Lost report not found")
}

func (b *Backend) handleDeleteLostReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	uid := userFrom(r).ID
	reps := b.lostReports[uid]
	for i := range reps {
		if reps[i].ID == id {
			b.lostReports[uid] = slices.Delete(reps, i, i+1)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Lost report not found")
}

func (b *Backend) handleListMyClaims(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Claim{}
	for _, c := range b.claims {
		if c.UserID == userFrom(r).ID {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	var in models.ClaimInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var item *models.FoundItem
	for i := range b.foundItems {
		if b.foundItems[i].ID == in.FoundItemID {
			it := b.foundItems[i]
			it.HiddenDetails = nil
			item = &it
		}
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	if len(in.Details) == 0 {
		writeError(w, http.StatusBadRequest, "Claim details are required")
		return
	}
	c := models.Claim{
		ID:          uuid.NewString(),
		FoundItemID: in.FoundItemID,
		FoundItem:   item,
		UserID:      userFrom(r).ID,
		Details:     in.Details,
		ImageURLs:   in.ImageURLs,
		Status:      models.ClaimPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	b.claims = append(b.claims, c)
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) handleStaffFoundItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.listFoundItems(queryOf(r), true))
}

func (b *Backend) handleCreateFoundItem(w http.ResponseWriter, r *http.Request) {
	var in models.FoundItemInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	it := models.FoundItem{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Category:      in.Category,
		Description:   in.Description,
		LocationFound: in.LocationFound,
		DateFound:     in.DateFound,
		Status:        "AVAILABLE",
		ImageURLs:     in.ImageURLs,
		PublicDetails: in.PublicDetails,
		HiddenDetails: in.HiddenDetails,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	if in.Status != "" {
		it.Status = in.Status
	}
	b.mu.Lock()
	b.foundItems = append(b.foundItems, it)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, it)
}

func (b *Backend) handleUpdateFoundItem(w http.ResponseWriter, r *http.Request) {
	var in models.FoundItemInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.foundItems {
		it := &b.foundItems[i]
		if it.ID != id {
			continue
		}
		it.Title = in.Title
		it.Category = in.Category
		it.Description = in.Description
		it.LocationFound = in.LocationFound
		it.DateFound = in.DateFound
		if in.Status != "" {
			it.Status = in.Status
		}
		it.PublicDetails = in.PublicDetails
		it.HiddenDetails = in.HiddenDetails
		if len(in.ImageURLs) > 0 {
			it.ImageURLs = in.ImageURLs
		}
		writeJSON(w, http.StatusOK, *it)
		return
	}
	writeError(w, http.StatusNotFound, "Item not found")
}

func (b *Backend) handleStaffClaims(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Claim{}
	for _, c := range b.claims {
		if status == "" || string(c.Status) == status {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleReviewClaim(w http.ResponseWriter, r *http.Request) {
	var in models.ClaimReview
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.claims {
		c := &b.claims[i]
		if c.ID != id {
			continue
		}
		if in.Status != "" {
			c.Status = in.Status
		}
		if in.MatchPercentage != nil {
			c.MatchPercentage = *in.MatchPercentage
		}
		if in.StaffNotes != "" {
			c.StaffNotes = in.StaffNotes
		}
		writeJSON(w, http.StatusOK, *c)
		return
	}
	writeError(w, http.StatusNotFound, "Claim not found")
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.User{}
	for _, u := range b.users {
		if search != "" && !strings.Contains(strings.ToLower(u.Email+" "+u.FullName), search) {
			continue
		}
		out = append(out, *u)
	}
	slices.SortFunc(out, func(x, y models.User) int { return strings.Compare(x.Email, y.Email) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	writeJSON(w, http.StatusOK, *u)
}

func (b *Backend) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var in models.StaffInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.passwords[in.Email]; ok {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	u := &models.User{
		ID:            uuid.NewString(),
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		Role:          models.RoleStaff,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	b.users[u.ID] = u
	b.setPasswordLocked(u.Email, in.Password)
	writeJSON(w, http.StatusCreated, *u)
}
