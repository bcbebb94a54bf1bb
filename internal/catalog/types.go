package catalog

import "log/slog"

// OverflowAddonName is the designated overflow add-on. The content source has
// exactly one of these; when it carries no isOverflow flag we fall back to this
// exact name.
const OverflowAddonName = "Additional 1 x 23L Balang"

// Drink is a single balang flavor. Read-only; owned by the content source.
type Drink struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"priceCents"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	ImageURL   string   `json:"imageUrl"`
}

// Package is an event package entitling FlavorLimit balangs.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	FlavorLimit int    `json:"flavorLimit"`
	Description string `json:"description"`
	Note        string `json:"note"`
}

// Addon is an optional extra. HasQuantity=false means the UI treats it as an
// on/off toggle; the cart layer does not enforce that.
type Addon struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	HasQuantity bool   `json:"hasQuantity"`
	IsOverflow  bool   `json:"isOverflow"`
}

// Catalog is one consistent read of the content source.
type Catalog struct {
	Drinks   []Drink   `json:"drinks"`
	Packages []Package `json:"packages"`
	Addons   []Addon   `json:"addons"`
}

// Overflow returns the add-on automatically priced in when the selected flavor
// count exceeds the package limit. Resolution prefers the isOverflow flag and
// falls back to the exact name convention. Returns nil when the catalog has no
// such add-on; pricing then degrades to zero extra cost.
func (c *Catalog) Overflow() *Addon {
	for i := range c.Addons {
		if c.Addons[i].IsOverflow {
			return &c.Addons[i]
		}
	}
	for i := range c.Addons {
		if c.Addons[i].Name == OverflowAddonName {
			return &c.Addons[i]
		}
	}
	return nil
}

// WarnIfNoOverflow logs once at load time so a renamed overflow add-on does not
// degrade silently.
func (c *Catalog) WarnIfNoOverflow(l *slog.Logger) {
	if c.Overflow() == nil {
		l.Warn("catalog has no overflow add-on; extra balangs will not be charged",
			"expected_name", OverflowAddonName)
	}
}

// DrinkByID returns the drink with the given id, or nil.
func (c *Catalog) DrinkByID(id string) *Drink {
	for i := range c.Drinks {
		if c.Drinks[i].ID == id {
			return &c.Drinks[i]
		}
	}
	return nil
}

// PackageByID returns the package with the given id, or nil.
func (c *Catalog) PackageByID(id string) *Package {
	for i := range c.Packages {
		if c.Packages[i].ID == id {
			return &c.Packages[i]
		}
	}
	return nil
}

// AddonByID returns the add-on with the given id, or nil.
func (c *Catalog) AddonByID(id string) *Addon {
	for i := range c.Addons {
		if c.Addons[i].ID == id {
			return &c.Addons[i]
		}
	}
	return nil
}
