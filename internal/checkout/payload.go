package checkout

import (
	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
)

// BuildPayload freezes a cart snapshot and its quote into the submission
// shape. The result owns no references back into the cart; later cart
// mutations cannot touch it.
func BuildPayload(s cart.Snapshot, q pricing.Quote) domain.OrderPayload {
	p := domain.OrderPayload{
		Flavors:    make([]domain.FlavorLine, 0, len(s.Lines)),
		Addons:     make([]domain.AddonLine, 0, len(s.Addons)),
		TotalCents: q.TotalCents,
	}
	if s.Package != nil {
		p.Package = &domain.PackageSummary{
			Name:       s.Package.Name,
			PriceCents: s.Package.PriceCents,
		}
	}
	for _, l := range s.Lines {
		p.Flavors = append(p.Flavors, domain.FlavorLine{Name: l.Drink.Name, Quantity: l.Quantity})
	}
	for _, a := range s.Addons {
		p.Addons = append(p.Addons, domain.AddonLine{
			Name:       a.Addon.Name,
			PriceCents: a.Addon.PriceCents,
			Quantity:   a.Quantity,
		})
	}
	if q.ExtraBalangCount > 0 && q.OverflowAddon != nil {
		p.AutoAddedExtraBalangs = &domain.ExtraBalangs{
			Name:      q.OverflowAddon.Name,
			Quantity:  q.ExtraBalangCount,
			CostCents: q.ExtraBalangCostCents,
		}
	}
	return p
}
