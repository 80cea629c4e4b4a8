package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/models"
)

// Init checks that the service answers.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.ListCategories(ctx)
	return err
}

// Load is a no-op; the client holds no connection.
func (c *Client) Load(ctx context.Context) error { return nil }

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) Describe() string { return c.base.String() }

func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, "current user", http.MethodGet, "auth/me/", nil, nil, &u)
	return u, err
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := c.do(ctx, "list categories", http.MethodGet, "categories/", nil, nil, &categories)
	return categories, err
}

// ListSlots sends the week's Monday as a calendar date; the service resolves
// it in its own zone.
func (c *Client) ListSlots(ctx context.Context, weekStart time.Time, categoryID models.ID) ([]models.TimeSlot, error) {
	q := url.Values{}
	q.Set("week", weekStart.Format(constants.DateFormat))
	if !categoryID.IsZero() {
		q.Set("category", categoryID.String())
	}
	slots := []models.TimeSlot{}
	err := c.do(ctx, "list slots", http.MethodGet, "timeslots/", q, nil, &slots)
	return slots, err
}

func (c *Client) BookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error) {
	var slot models.TimeSlot
	err := c.do(ctx, "book", http.MethodPost, "book/"+url.PathEscape(id.String())+"/", nil, nil, &slot)
	return slot, err
}

func (c *Client) UnbookSlot(ctx context.Context, id models.ID) (models.TimeSlot, error) {
	var slot models.TimeSlot
	err := c.do(ctx, "unbook", http.MethodPost, "unbook/"+url.PathEscape(id.String())+"/", nil, nil, &slot)
	return slot, err
}

func (c *Client) GetPreferences(ctx context.Context) (models.Preferences, error) {
	var p models.Preferences
	err := c.do(ctx, "get preferences", http.MethodGet, "preferences/", nil, nil, &p)
	return p, err
}

func (c *Client) UpdatePreferences(ctx context.Context, categories []models.ID) (models.Preferences, error) {
	if categories == nil {
		categories = []models.ID{}
	}
	body := struct {
		Categories []models.ID `json:"categories"`
	}{categories}

	var p models.Preferences
	err := c.do(ctx, "update preferences", http.MethodPut, "preferences/", nil, body, &p)
	return p, err
}

// CreateSlot posts the input and returns the stored slot. The create endpoint
// echoes only the written fields, so the id may be empty.
func (c *Client) CreateSlot(ctx context.Context, in models.NewSlot) (models.TimeSlot, error) {
	var slot models.TimeSlot
	err := c.do(ctx, "create slot", http.MethodPost, "admin/timeslots/", nil, in, &slot)
	return slot, err
}

func (c *Client) ListAllSlots(ctx context.Context) ([]models.TimeSlot, error) {
	slots := []models.TimeSlot{}
	err := c.do(ctx, "list all slots", http.MethodGet, "admin/timeslots/", nil, nil, &slots)
	return slots, err
}
