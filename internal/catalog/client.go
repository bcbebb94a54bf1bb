package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"
)

// Client reads the three catalog collections from the content source.
// All access is read-only; the storefront never writes to the catalog.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Wire shapes. The content tool authors prices as decimal dollars; we convert
// to cents at the boundary and never carry floats further in.
type drinkDoc struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PricePerBalang float64  `json:"pricePerBalang"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"imageUrl"`
}

type packageDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	FlavorLimit int     `json:"flavorLimit"`
	Description string  `json:"description"`
	Note        string  `json:"note"`
}

type addonDoc struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	HasQuantity *bool   `json:"hasQuantity"`
	IsOverflow  bool    `json:"isOverflow"`
}

func toCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return nil
}

// Drinks returns all drinks ordered by name ascending.
func (c *Client) Drinks(ctx context.Context) ([]Drink, error) {
	var docs []drinkDoc
	if err := c.get(ctx, "/drinks", &docs); err != nil {
		return nil, err
	}
	out := make([]Drink, 0, len(docs))
	for _, d := range docs {
		out = append(out, Drink{
			ID:         d.ID,
			Name:       d.Name,
			PriceCents: toCents(d.PricePerBalang),
			Category:   d.Category,
			Tags:       d.Tags,
			ImageURL:   d.ImageURL,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Packages returns all packages ordered by price ascending.
func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	var docs []packageDoc
	if err := c.get(ctx, "/packages", &docs); err != nil {
		return nil, err
	}
	out := make([]Package, 0, len(docs))
	for _, p := range docs {
		out = append(out, Package{
			ID:          p.ID,
			Name:        p.Name,
			PriceCents:  toCents(p.Price),
			FlavorLimit: p.FlavorLimit,
			Description: p.Description,
			Note:        p.Note,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

// Addons returns all add-ons ordered by price ascending. A document without a
// hasQuantity field defaults to false (on/off toggle).
func (c *Client) Addons(ctx context.Context) ([]Addon, error) {
	var docs []addonDoc
	if err := c.get(ctx, "/addons", &docs); err != nil {
		return nil, err
	}
	out := make([]Addon, 0, len(docs))
	for _, a := range docs {
		hasQty := false
		if a.HasQuantity != nil {
			hasQty = *a.HasQuantity
		}
		out = append(out, Addon{
			ID:          a.ID,
			Name:        a.Name,
			PriceCents:  toCents(a.Price),
			HasQuantity: hasQty,
			IsOverflow:  a.IsOverflow,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

// Fetch reads all three collections.
func (c *Client) Fetch(ctx context.Context) (*Catalog, error) {
	drinks, err := c.Drinks(ctx)
	if err != nil {
		return nil, err
	}
	packages, err := c.Packages(ctx)
	if err != nil {
		return nil, err
	}
	addons, err := c.Addons(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{Drinks: drinks, Packages: packages, Addons: addons}, nil
}
