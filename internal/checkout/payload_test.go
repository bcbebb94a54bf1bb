package checkout

import (
	"testing"

	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
)

func TestBuildPayload(t *testing.T) {
	overflow := catalog.Addon{ID: "ab", Name: catalog.OverflowAddonName, PriceCents: 5000}
	cat := &catalog.Catalog{Addons: []catalog.Addon{overflow}}

	s := cart.Snapshot{
		Lines: []cart.Line{
			{Drink: catalog.Drink{ID: "d1", Name: "Teh Tarik"}, Quantity: 4},
			{Drink: catalog.Drink{ID: "d2", Name: "Bandung"}, Quantity: 3},
		},
		Package: &catalog.Package{ID: "p1", Name: "Medium", PriceCents: 20000, FlavorLimit: 5},
		Addons: []cart.AddonLine{
			{Addon: catalog.Addon{ID: "a1", Name: "Table Setup", PriceCents: 2000}, Quantity: 2},
		},
	}
	q := pricing.Compute(s, cat, pricing.OverflowSeparate)

	p := BuildPayload(s, q)

	if p.Package == nil || p.Package.Name != "Medium" || p.Package.PriceCents != 20000 {
		t.Errorf("package = %+v", p.Package)
	}
	if len(p.Flavors) != 2 || p.Flavors[0].Name != "Teh Tarik" || p.Flavors[0].Quantity != 4 {
		t.Errorf("flavors = %+v", p.Flavors)
	}
	if len(p.Addons) != 1 || p.Addons[0].PriceCents != 2000 || p.Addons[0].Quantity != 2 {
		t.Errorf("addons = %+v", p.Addons)
	}
	if p.AutoAddedExtraBalangs == nil {
		t.Fatal("expected auto-added extra balang line")
	}
	if p.AutoAddedExtraBalangs.Name != catalog.OverflowAddonName ||
		p.AutoAddedExtraBalangs.Quantity != 2 ||
		p.AutoAddedExtraBalangs.CostCents != 10000 {
		t.Errorf("extra balangs = %+v", p.AutoAddedExtraBalangs)
	}
	// $200 + $40 + $100
	if p.TotalCents != 34000 {
		t.Errorf("TotalCents = %d, want 34000", p.TotalCents)
	}
}

func TestBuildPayloadOmitsAbsentParts(t *testing.T) {
	s := cart.Snapshot{
		Lines: []cart.Line{{Drink: catalog.Drink{ID: "d1", Name: "Teh Tarik"}, Quantity: 1}},
		Package: &catalog.Package{ID: "p1", Name: "Small", PriceCents: 10000, FlavorLimit: 1},
	}
	q := pricing.Compute(s, &catalog.Catalog{}, pricing.OverflowMerge)

	p := BuildPayload(s, q)
	if p.AutoAddedExtraBalangs != nil {
		t.Errorf("extra balangs = %+v, want nil at the limit", p.AutoAddedExtraBalangs)
	}
	if len(p.Addons) != 0 {
		t.Errorf("addons = %+v, want empty", p.Addons)
	}
}
