package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

const (
	emptyFoundItems  = "No found items yet."
	emptyLostReports = "You have not reported any lost items."
	emptyMyClaims    = "You have not submitted any claims."
)

var errReportNotFound = errors.New("lost report not found")

func (a *App) printFoundItems(items []models.FoundItem, withHidden bool) {
	if len(items) == 0 {
		a.println(emptyFoundItems)
		return
	}
	for _, it := range items {
		a.printf("%s  %s [%s] %s, found %s at %s\n", it.ID, it.Title, it.Category, it.Status, it.DateFound, it.LocationFound)
		if withHidden && len(it.HiddenDetails) > 0 {
			a.printf("    hidden: %s\n", formatDetails(it.HiddenDetails))
		}
	}
}

func (a *App) printFoundItem(it *models.FoundItem) {
	a.printf("%s\n", it.Title)
	a.printf("  ID:          %s\n", it.ID)
	a.printf("  Category:    %s\n", it.Category)
	a.printf("  Status:      %s\n", it.Status)
	a.printf("  Found:       %s at %s\n", it.DateFound, it.LocationFound)
	if it.Description != "" {
		a.printf("  Description: %s\n", it.Description)
	}
	if len(it.PublicDetails) > 0 {
		a.printf("  Details:     %s\n", formatDetails(it.PublicDetails))
	}
	if len(it.HiddenDetails) > 0 {
		a.printf("  Hidden:      %s\n", formatDetails(it.HiddenDetails))
	}
	for _, u := range it.ImageURLs {
		a.printf("  Image:       %s\n", u)
	}
	if !it.CreatedAt.IsZero() {
		a.printf("  Added:       %s\n", humanize.Time(it.CreatedAt))
	}
}

func formatDetails(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, d := range models.DetailsFromMap(m) {
		parts = append(parts, d.Key+"="+d.Value)
	}
	return strings.Join(parts, ", ")
}

// BrowseItems lists public found items; any arguments form the search text.
func (a *App) BrowseItems(ctx context.Context, args []string) error {
	a.println("Loading...")
	items, err := a.items.BrowseFoundItems(ctx, models.ListQuery{Search: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	a.printFoundItems(items, false)
	return nil
}

func (a *App) ShowItem(ctx context.Context, args []string) error {
	it, err := a.items.GetFoundItem(ctx, args[0])
	if err != nil {
		return err
	}
	a.printFoundItem(it)
	return nil
}

func (a *App) ListReports(ctx context.Context, _ []string) error {
	a.println("Loading...")
	reports, err := a.items.MyLostReports(ctx)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		a.println(emptyLostReports)
		return nil
	}
	for _, r := range reports {
		a.printf("%s  %s [%s] %s, lost %s at %s\n", r.ID, r.Title, r.Category, r.Status, r.DateLost, r.LocationLost)
		if len(r.Details) > 0 {
			a.printf("    %s\n", formatDetails(r.Details))
		}
	}
	return nil
}

// askLostReport fills f interactively. Existing values are offered as
// defaults so the same prompts serve create and edit.
func (a *App) askLostReport(f *forms.LostReportForm) error {
	if err := a.askDefault("Title", &f.Title); err != nil {
		return err
	}
	if err := a.askDefault("Category", &f.Category); err != nil {
		return err
	}
	if err := a.askDefault("Description", &f.Description); err != nil {
		return err
	}
	if err := a.askDefault("Where did you lose it?", &f.Location); err != nil {
		return err
	}
	if err := a.askDefault("Date lost (YYYY-MM-DD)", &f.Date); err != nil {
		return err
	}
	details, err := GetDetails(a.reader, "Identifying details", a.out)
	if err != nil {
		return err
	}
	if len(details) > 0 {
		f.Details = details
	}
	if f.Images, err = GetLines(a.reader, fmt.Sprintf("Image file paths (up to %d)", forms.MaxImages), a.out); err != nil {
		return err
	}
	return nil
}

func (a *App) ReportLost(ctx context.Context, _ []string) error {
	var f forms.LostReportForm
	if err := a.askLostReport(&f); err != nil {
		return err
	}
	r, err := a.items.ReportLost(ctx, f)
	if err != nil {
		return err
	}
	a.println("Lost report created:", r.ID)
	return nil
}

func (a *App) findReport(ctx context.Context, id string) (*models.LostReport, error) {
	reports, err := a.items.MyLostReports(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if reports[i].ID == id {
			return &reports[i], nil
		}
	}
	return nil, errReportNotFound
}

func (a *App) EditReport(ctx context.Context, args []string) error {
	cur, err := a.findReport(ctx, args[0])
	if err != nil {
		return err
	}
	f := forms.LostReportForm{
		Title:       cur.Title,
		Category:    cur.Category,
		Description: cur.Description,
		Location:    cur.LocationLost,
		Date:        cur.DateLost,
		Details:     models.DetailsFromMap(cur.Details),
	}
	a.println("Press Enter to keep a current value.")
	if err := a.askLostReport(&f); err != nil {
		return err
	}
	if _, err := a.items.UpdateLostReport(ctx, cur.ID, f); err != nil {
		return err
	}
	a.println("Lost report updated.")
	return nil
}

func (a *App) DeleteReport(ctx context.Context, args []string) error {
	answer, err := a.ask(fmt.Sprintf("Delete lost report %s? (y/N)", args[0]))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled.")
		return nil
	}
	if err := a.items.DeleteLostReport(ctx, args[0]); err != nil {
		return err
	}
	a.println("Lost report deleted.")
	return nil
}

// Claim asks for the details that prove ownership of the found item.
func (a *App) Claim(ctx context.Context, args []string) error {
	f := forms.ClaimForm{FoundItemID: args[0]}
	var err error
	if f.Details, err = GetDetails(a.reader, "Describe identifying details only the owner would know", a.out); err != nil {
		return err
	}
	if f.Images, err = GetLines(a.reader, fmt.Sprintf("Proof image file paths (up to %d)", forms.MaxImages), a.out); err != nil {
		return err
	}
	c, err := a.items.SubmitClaim(ctx, f)
	if err != nil {
		return err
	}
	a.printf("Claim %s submitted, status %s.\n", c.ID, c.Status)
	return nil
}

func (a *App) printClaims(claims []models.Claim, empty string) {
	if len(claims) == 0 {
		a.println(empty)
		return
	}
	for _, c := range claims {
		item := c.FoundItemID
		if c.FoundItem != nil {
			item = fmt.Sprintf("%s (%s)", c.FoundItem.Title, c.FoundItemID)
		}
		a.printf("%s  %s  %s  match %.0f%%\n", c.ID, item, c.Status, c.MatchPercentage)
		if c.User != nil {
			a.printf("    by %s <%s>\n", c.User.FullName, c.User.Email)
		}
		if len(c.Details) > 0 {
			a.printf("    %s\n", formatDetails(c.Details))
		}
		if c.StaffNotes != "" {
			a.printf("    notes: %s\n", c.StaffNotes)
		}
	}
}

func (a *App) ListClaims(ctx context.Context, _ []string) error {
	a.println("Loading...")
	claims, err := a.items.MyClaims(ctx)
	if err != nil {
		return err
	}
	a.printClaims(claims, emptyMyClaims)
	return nil
}
