package plans

import "strings"

// Plan is a purchasable credit package.
type Plan struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Icon       string      `json:"icon"`
	Price      float64     `json:"price"`
	Credits    int         `json:"credits"`
	Inclusions []Inclusion `json:"inclusions"`
}

type Inclusion struct {
	Label      string `json:"label"`
	IsIncluded bool   `json:"isIncluded"`
}

// Free reports whether the plan can be taken without a checkout.
func (p Plan) Free() bool {
	return p.Price <= 0
}

// UnitAmount is the price in minor currency units as Stripe expects it.
func (p Plan) UnitAmount() int64 {
	return int64(p.Price*100 + 0.5)
}

var catalog = []Plan{
	{
		ID:      "1",
		Name:    "Free",
		Icon:    "free-plan.svg",
		Price:   0,
		Credits: 20,
		Inclusions: []Inclusion{
			{Label: "20 Free Credits", IsIncluded: true},
			{Label: "Basic Access to Services", IsIncluded: true},
			{Label: "Priority Customer Support", IsIncluded: false},
			{Label: "Priority Updates", IsIncluded: false},
		},
	},
	{
		ID:      "2",
		Name:    "Pro Package",
		Icon:    "free-plan.svg",
		Price:   40,
		Credits: 120,
		Inclusions: []Inclusion{
			{Label: "120 Credits", IsIncluded: true},
			{Label: "Full Access to Services", IsIncluded: true},
			{Label: "Priority Customer Support", IsIncluded: true},
			{Label: "Priority Updates", IsIncluded: false},
		},
	},
	{
		ID:      "3",
		Name:    "Premium Package",
		Icon:    "free-plan.svg",
		Price:   199,
		Credits: 2000,
		Inclusions: []Inclusion{
			{Label: "2000 Credits", IsIncluded: true},
			{Label: "Full Access to Services", IsIncluded: true},
			{Label: "Priority Customer Support", IsIncluded: true},
			{Label: "Priority Updates", IsIncluded: true},
		},
	},
}

// Catalog returns a copy of every plan ordered by price.
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// Find matches a plan by id or, case-insensitively, by name.
func Find(key string) (Plan, bool) {
	key = strings.TrimSpace(key)
	for _, p := range catalog {
		if p.ID == key || strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Plan{}, false
}
