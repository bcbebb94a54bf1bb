// Package pricing derives pricing facts from a cart snapshot and the catalog.
// It is pure: no I/O, no state; callers invoke it after each mutation.
package pricing

import (
	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
)

// OverflowPolicy decides how auto-derived extra balangs interact with a
// manually selected overflow add-on.
type OverflowPolicy int

const (
	// OverflowMerge subtracts manually selected overflow units from the
	// derived count, floored at zero, so the same balang is never billed
	// twice.
	OverflowMerge OverflowPolicy = iota
	// OverflowSeparate charges the derived count on top of any manual
	// selection (the storefront's original additive behavior).
	OverflowSeparate
)

// Quote is the full set of derived pricing facts for one snapshot.
type Quote struct {
	TotalFlavorCount     int   `json:"totalFlavorCount"`
	ExtraBalangCount     int   `json:"extraBalangCount"`
	ExtraBalangCostCents int64 `json:"extraBalangCostCents"`
	PackageCostCents     int64 `json:"packageCostCents"`
	AddonCostCents       int64 `json:"addonCostCents"`
	TotalCents           int64 `json:"totalCents"`
	BookingReady         bool  `json:"bookingReady"`

	// OverflowAddon is the catalog add-on backing the extra-balang line,
	// nil when the catalog has none or no extras are derived.
	OverflowAddon *catalog.Addon `json:"overflowAddon,omitempty"`
}

// Compute derives a Quote. Quantities are taken exactly as the cart holds
// them; nothing here assumes the HasQuantity cap was enforced upstream.
func Compute(s cart.Snapshot, cat *catalog.Catalog, policy OverflowPolicy) Quote {
	q := Quote{TotalFlavorCount: s.TotalFlavorCount()}

	if s.Package != nil {
		q.PackageCostCents = s.Package.PriceCents
		q.BookingReady = q.TotalFlavorCount >= s.Package.FlavorLimit
	}
	for _, a := range s.Addons {
		q.AddonCostCents += a.Addon.PriceCents * int64(a.Quantity)
	}

	if s.Package != nil && q.TotalFlavorCount > s.Package.FlavorLimit {
		if overflow := cat.Overflow(); overflow != nil {
			count := q.TotalFlavorCount - s.Package.FlavorLimit
			if policy == OverflowMerge {
				count -= manualQuantity(s, overflow.ID)
				if count < 0 {
					count = 0
				}
			}
			if count > 0 {
				q.OverflowAddon = overflow
				q.ExtraBalangCount = count
				q.ExtraBalangCostCents = int64(count) * overflow.PriceCents
			}
		}
		// No overflow add-on in the catalog: extras stay free. The gap is
		// reported once at catalog load, not per quote.
	}

	q.TotalCents = q.PackageCostCents + q.AddonCostCents + q.ExtraBalangCostCents
	return q
}

func manualQuantity(s cart.Snapshot, addonID string) int {
	for _, a := range s.Addons {
		if a.Addon.ID == addonID {
			return a.Quantity
		}
	}
	return 0
}
