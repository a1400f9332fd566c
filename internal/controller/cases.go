package controller

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"casedesk/internal/model"
)

const (
	pathSetCase     = "/setcaseid/"
	pathClearCase   = "/clearcaseid/"
	pathCaseItems   = "/case/items/"
	pathAddItem     = "/case/add_item/"
	pathDelItem     = "/case/del_item/"
	pathUpdateItems = "/case/update_items/"

	// clearCaseSentinel is the _id the backend expects when clearing the session case.
	clearCaseSentinel = "none"
)

// SetCase selects (data-id present) or clears (data-id empty) the session case.
// Both paths end in a reload on success; on failure nothing changes.
func (c *Controller) SetCase(ctx context.Context, t Target) error {
	id := t.Attr(AttrID)

	path, value := pathSetCase, id
	if id == "" {
		path, value = pathClearCase, clearCaseSentinel
	}
	if _, err := c.post(ctx, path, url.Values{"_id": {value}}); err != nil {
		return err
	}

	next := model.Case{}
	if id != "" {
		next = model.Case{
			ID:          id,
			CauseNumber: t.Attr(AttrCauseNumber),
			Description: t.Attr(AttrDescription),
		}
	}
	if err := c.state.SetCase(next); err != nil {
		return fmt.Errorf("persist case: %w", err)
	}
	return c.nav.Reload(ctx)
}

func (c *Controller) ShowCaseItems(ctx context.Context) error {
	return c.nav.Assign(ctx, pathCaseItems)
}

// caseItem reads the (db, ed, rec) triple from t and binds it to the active case.
// The case id is sent as-is; an unset case is the backend's to reject.
func (c *Controller) caseItem(category string, t Target) model.CaseItem {
	return model.CaseItem{
		DB:       t.Attr(AttrDB),
		ED:       t.Attr(AttrED),
		Rec:      t.Attr(AttrRec),
		CaseID:   c.state.Case().ID,
		Category: category,
	}
}

func itemForm(it model.CaseItem) url.Values {
	return url.Values{
		"db":       {it.DB},
		"ed":       {it.ED},
		"rec":      {it.Rec},
		"case_id":  {it.CaseID},
		"category": {it.Category},
		"key":      {it.Key()},
	}
}

func (c *Controller) mutateItem(ctx context.Context, path string, form url.Values) error {
	if _, err := c.post(ctx, path, form); err != nil {
		return err
	}
	return c.nav.Reload(ctx)
}

func (c *Controller) AddCaseItem(ctx context.Context, category string, t Target) error {
	return c.mutateItem(ctx, pathAddItem, itemForm(c.caseItem(category, t)))
}

func (c *Controller) DeleteCaseItem(ctx context.Context, category string, t Target) error {
	return c.mutateItem(ctx, pathDelItem, itemForm(c.caseItem(category, t)))
}

func (c *Controller) AddVehicleToCase(ctx context.Context, t Target) error {
	return c.AddCaseItem(ctx, model.CategoryVehicle, t)
}

func (c *Controller) DeleteVehicleFromCase(ctx context.Context, t Target) error {
	return c.DeleteCaseItem(ctx, model.CategoryVehicle, t)
}

// UpdateCaseItems includes or excludes an item. Category, op and description come from t.
func (c *Controller) UpdateCaseItems(ctx context.Context, t Target) error {
	it := c.caseItem(t.Attr(AttrCategory), t)
	it.Op = model.ItemOp(strings.ToLower(t.Attr(AttrOp)))
	it.Description = t.Attr(AttrDescription)
	if !it.Op.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOperation, t.Attr(AttrOp))
	}

	form := itemForm(it)
	form.Set("op", string(it.Op))
	form.Set("description", it.Description)
	return c.mutateItem(ctx, pathUpdateItems, form)
}
