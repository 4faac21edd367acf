// ABOUTME: Partner-area endpoints: restaurants, categories, menus, sections, tables, orders
// ABOUTME: List/create/update calls returning decoded models plus the normalized result

package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"
)

// Restaurant is a partner-owned restaurant.
type Restaurant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// Order is a customer order placed against a restaurant.
type Order struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	TableName    string  `json:"table_name"`
	Status       string  `json:"status"`
	Total        float64 `json:"total"`
	CreatedAt    string  `json:"created_at"`
}

// MenuInput is the payload for creating a menu item.
type MenuInput struct {
	RestaurantID int64   `json:"restaurant_id"`
	CategoryID   int64   `json:"category_id"`
	SectionID    int64   `json:"section_id"`
	UnitID       int64   `json:"unit_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty"`
}

// Restaurants lists the partner's restaurants.
func (c *Client) Restaurants(ctx context.Context) ([]Restaurant, *Result, error) {
	res, err := c.get(ctx, basePartner+"/restaurants")
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}
	var out []Restaurant
	if raw := res.Data().Raw; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, res, fmt.Errorf("invalid restaurant list: %w", err)
		}
	}
	return out, res, nil
}

// CreateRestaurant creates a restaurant from the given fields.
func (c *Client) CreateRestaurant(ctx context.Context, fields map[string]any) (*Result, error) {
	body, err := buildBody(fields)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, basePartner+"/restaurants", body)
}

// UpdateRestaurant applies a partial update; only the given fields are sent.
func (c *Client) UpdateRestaurant(ctx context.Context, id int64, fields map[string]any) (*Result, error) {
	body, err := buildBody(fields)
	if err != nil {
		return nil, err
	}
	return c.put(ctx, fmt.Sprintf("%s/restaurants/%d", basePartner, id), body)
}

// DeleteRestaurant removes a restaurant.
func (c *Client) DeleteRestaurant(ctx context.Context, id int64) (*Result, error) {
	return c.delete(ctx, fmt.Sprintf("%s/restaurants/%d", basePartner, id))
}

// Categories lists menu categories for a restaurant.
func (c *Client) Categories(ctx context.Context, restaurantID int64) ([]Lookup, *Result, error) {
	return c.lookups(ctx, fmt.Sprintf("%s/restaurants/%d/categories", basePartner, restaurantID))
}

// Sections lists seating/menu sections for a restaurant.
func (c *Client) Sections(ctx context.Context, restaurantID int64) ([]Lookup, *Result, error) {
	return c.lookups(ctx, fmt.Sprintf("%s/restaurants/%d/sections", basePartner, restaurantID))
}

// Tables lists tables for a restaurant.
func (c *Client) Tables(ctx context.Context, restaurantID int64) ([]Lookup, *Result, error) {
	return c.lookups(ctx, fmt.Sprintf("%s/restaurants/%d/tables", basePartner, restaurantID))
}

func (c *Client) lookups(ctx context.Context, path string) ([]Lookup, *Result, error) {
	res, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}
	return decodeLookups(res.Data()), res, nil
}

// Categories, sections, and tables share one management shape: a named
// sub-resource created under a restaurant and addressed directly afterwards.

// CreateCategory adds a menu category to a restaurant.
func (c *Client) CreateCategory(ctx context.Context, restaurantID int64, name string) (*Result, error) {
	return c.createNamed(ctx, "categories", restaurantID, name)
}

// RenameCategory changes a category's name.
func (c *Client) RenameCategory(ctx context.Context, id int64, name string) (*Result, error) {
	return c.renameNamed(ctx, "categories", id, name)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) (*Result, error) {
	return c.deleteNamed(ctx, "categories", id)
}

// CreateSection adds a section to a restaurant.
func (c *Client) CreateSection(ctx context.Context, restaurantID int64, name string) (*Result, error) {
	return c.createNamed(ctx, "sections", restaurantID, name)
}

// RenameSection changes a section's name.
func (c *Client) RenameSection(ctx context.Context, id int64, name string) (*Result, error) {
	return c.renameNamed(ctx, "sections", id, name)
}

// DeleteSection removes a section.
func (c *Client) DeleteSection(ctx context.Context, id int64) (*Result, error) {
	return c.deleteNamed(ctx, "sections", id)
}

// CreateTable adds a table to a restaurant.
func (c *Client) CreateTable(ctx context.Context, restaurantID int64, name string) (*Result, error) {
	return c.createNamed(ctx, "tables", restaurantID, name)
}

// RenameTable changes a table's name.
func (c *Client) RenameTable(ctx context.Context, id int64, name string) (*Result, error) {
	return c.renameNamed(ctx, "tables", id, name)
}

// DeleteTable removes a table.
func (c *Client) DeleteTable(ctx context.Context, id int64) (*Result, error) {
	return c.deleteNamed(ctx, "tables", id)
}

func (c *Client) createNamed(ctx context.Context, resource string, restaurantID int64, name string) (*Result, error) {
	body, _ := sjson.SetBytes(nil, "name", name)
	return c.post(ctx, fmt.Sprintf("%s/restaurants/%d/%s", basePartner, restaurantID, resource), body)
}

func (c *Client) renameNamed(ctx context.Context, resource string, id int64, name string) (*Result, error) {
	body, _ := sjson.SetBytes(nil, "name", name)
	return c.put(ctx, fmt.Sprintf("%s/%s/%d", basePartner, resource, id), body)
}

func (c *Client) deleteNamed(ctx context.Context, resource string, id int64) (*Result, error) {
	return c.delete(ctx, fmt.Sprintf("%s/%s/%d", basePartner, resource, id))
}

// Menu is a menu item as the service returns it.
type Menu struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	CategoryID   int64   `json:"category_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
}

// Menus lists the menu items of a restaurant.
func (c *Client) Menus(ctx context.Context, restaurantID int64) ([]Menu, *Result, error) {
	res, err := c.get(ctx, fmt.Sprintf("%s/restaurants/%d/menus", basePartner, restaurantID))
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}
	var out []Menu
	if raw := res.Data().Raw; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, res, fmt.Errorf("invalid menu list: %w", err)
		}
	}
	return out, res, nil
}

// CreateMenu creates a menu item.
func (c *Client) CreateMenu(ctx context.Context, input MenuInput) (*Result, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal menu input: %w", err)
	}
	return c.post(ctx, basePartner+"/menus", body)
}

// UpdateMenu applies a partial update; only the given fields are sent.
func (c *Client) UpdateMenu(ctx context.Context, id int64, fields map[string]any) (*Result, error) {
	body, err := buildBody(fields)
	if err != nil {
		return nil, err
	}
	return c.put(ctx, fmt.Sprintf("%s/menus/%d", basePartner, id), body)
}

// DeleteMenu removes a menu item.
func (c *Client) DeleteMenu(ctx context.Context, id int64) (*Result, error) {
	return c.delete(ctx, fmt.Sprintf("%s/menus/%d", basePartner, id))
}

// Orders lists orders for a restaurant.
func (c *Client) Orders(ctx context.Context, restaurantID int64) ([]Order, *Result, error) {
	res, err := c.get(ctx, fmt.Sprintf("%s/restaurants/%d/orders", basePartner, restaurantID))
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}
	var out []Order
	if raw := res.Data().Raw; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, res, fmt.Errorf("invalid order list: %w", err)
		}
	}
	return out, res, nil
}

// UpdateOrderStatus sets the status of one order.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Result, error) {
	body, _ := sjson.SetBytes(nil, "status", status)
	return c.put(ctx, fmt.Sprintf("%s/orders/%d/status", basePartner, orderID), body)
}

// MenuLookups is the set of reference data the menu form needs.
type MenuLookups struct {
	Categories []Lookup
	Sections   []Lookup
	Tables     []Lookup
	Units      []Lookup
}

// FetchMenuLookups fires the four lookup calls in parallel, the way the menu
// screen does. Responses arrive in any order; each lands in its own slot. An
// unauthorized result from any call wins over other failures so the caller
// tears the session down instead of showing a generic error.
func (c *Client) FetchMenuLookups(ctx context.Context, restaurantID int64) (*MenuLookups, *Result, error) {
	var (
		lookups MenuLookups
		results [4]*Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lookups.Categories, results[0], err = c.Categories(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		lookups.Sections, results[1], err = c.Sections(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		lookups.Tables, results[2], err = c.Tables(gctx, restaurantID)
		return err
	})
	g.Go(func() (err error) {
		lookups.Units, results[3], err = c.Units(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var failed *Result
	for _, res := range results {
		if res == nil || res.OK {
			continue
		}
		if res.Kind == KindUnauthorized {
			return nil, res, nil
		}
		if failed == nil {
			failed = res
		}
	}
	if failed != nil {
		return nil, failed, nil
	}

	return &lookups, results[0], nil
}

// buildBody assembles a JSON object from loose fields without an
// intermediate struct, keeping partial updates partial.
func buildBody(fields map[string]any) ([]byte, error) {
	body := []byte("{}")
	var err error
	for key, value := range fields {
		body, err = sjson.SetBytes(body, key, value)
		if err != nil {
			return nil, fmt.Errorf("build body field %s: %w", key, err)
		}
	}
	return body, nil
}
