package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/forms"
	"github.com/dmitrijs2005/lostfound/internal/client/models"
)

var errItemNotFound = errors.New("found item not found")

func (a *App) StaffItems(ctx context.Context, args []string) error {
	a.println("Loading...")
	items, err := a.staff.ListFoundItems(ctx, models.ListQuery{Search: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	a.printFoundItems(items, true)
	return nil
}

func (a *App) askFoundItem(f *forms.FoundItemForm) error {
	if err := a.askDefault("Title", &f.Title); err != nil {
		return err
	}
	if err := a.askDefault("Category", &f.Category); err != nil {
		return err
	}
	if err := a.askDefault("Description", &f.Description); err != nil {
		return err
	}
	if err := a.askDefault("Where was it found?", &f.Location); err != nil {
		return err
	}
	if err := a.askDefault("Date found (YYYY-MM-DD)", &f.Date); err != nil {
		return err
	}
	if err := a.askDefault("Status (optional)", &f.Status); err != nil {
		return err
	}
	public, err := GetDetails(a.reader, "Public details", a.out)
	if err != nil {
		return err
	}
	if len(public) > 0 {
		f.PublicDetails = public
	}
	hidden, err := GetDetails(a.reader, "Hidden details used to verify claims", a.out)
	if err != nil {
		return err
	}
	if len(hidden) > 0 {
		f.HiddenDetails = hidden
	}
	f.Images, err = GetLines(a.reader, fmt.Sprintf("Image file paths (up to %d)", forms.MaxImages), a.out)
	return err
}

func (a *App) AddItem(ctx context.Context, _ []string) error {
	var f forms.FoundItemForm
	if err := a.askFoundItem(&f); err != nil {
		return err
	}
	it, err := a.staff.CreateFoundItem(ctx, f)
	if err != nil {
		return err
	}
	a.println("Found item created:", it.ID)
	return nil
}

// lookupPageSize is the page size used when scanning the staff list for
// one item.
const lookupPageSize = 100

// findStaffItem pages through the staff list until id turns up. There is no
// staff endpoint for a single item with its hidden details.
func (a *App) findStaffItem(ctx context.Context, id string) (*models.FoundItem, error) {
	var prevFirst string
	for page := 1; ; page++ {
		items, err := a.staff.ListFoundItems(ctx, models.ListQuery{Page: page, Limit: lookupPageSize})
		if err != nil {
			return nil, err
		}
		// a backend that ignores paging repeats the first page
		if len(items) == 0 || items[0].ID == prevFirst {
			return nil, errItemNotFound
		}
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
		if len(items) < lookupPageSize {
			return nil, errItemNotFound
		}
		prevFirst = items[0].ID
	}
}

func (a *App) EditItem(ctx context.Context, args []string) error {
	cur, err := a.findStaffItem(ctx, args[0])
	if err != nil {
		return err
	}

	f := forms.FoundItemForm{
		Title:         cur.Title,
		Category:      cur.Category,
		Description:   cur.Description,
		Location:      cur.LocationFound,
		Date:          cur.DateFound,
		Status:        cur.Status,
		PublicDetails: models.DetailsFromMap(cur.PublicDetails),
		HiddenDetails: models.DetailsFromMap(cur.HiddenDetails),
	}
	a.println("Press Enter to keep a current value.")
	if err := a.askFoundItem(&f); err != nil {
		return err
	}
	if _, err := a.staff.UpdateFoundItem(ctx, cur.ID, f); err != nil {
		return err
	}
	a.println("Found item updated.")
	return nil
}

// ReviewQueue lists claims with the given status, PENDING by default;
// "all" drops the filter.
func (a *App) ReviewQueue(ctx context.Context, args []string) error {
	status := string(models.ClaimPending)
	if len(args) > 0 {
		status = args[0]
	}
	if strings.EqualFold(status, "all") {
		status = ""
	}
	a.println("Loading...")
	claims, err := a.staff.ListClaims(ctx, status)
	if err != nil {
		return err
	}
	a.printClaims(claims, "No claims to review.")
	return nil
}

func (a *App) ReviewClaim(ctx context.Context, args []string) error {
	var f forms.ClaimReviewForm
	var err error
	if f.Status, err = a.ask("New status (PENDING, APPROVED, REJECTED, COLLECTED)"); err != nil {
		return err
	}
	pct, err := a.ask("Match percentage 0-100 (optional)")
	if err != nil {
		return err
	}
	if pct != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(pct, "%"), 64)
		if err != nil {
			return fmt.Errorf("match percentage must be a number")
		}
		f.MatchPercentage = &v
	}
	if f.Notes, err = a.ask("Staff notes (optional)"); err != nil {
		return err
	}
	c, err := a.staff.ReviewClaim(ctx, args[0], f)
	if err != nil {
		return err
	}
	a.printf("Claim %s is now %s.\n", c.ID, c.Status)
	return nil
}
