package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoSubscription is returned when a shop has no subscription row.
var ErrNoSubscription = errors.New("subscription not found")

// PlanName identifies a pricing tier.
type PlanName string

const (
	PlanFree       PlanName = "free"
	PlanBasic      PlanName = "basic"
	PlanPro        PlanName = "pro"
	PlanEnterprise PlanName = "enterprise"
)

// FormatPolicy states whether a plan may use every feed format or only an
// explicit allow-list.
type FormatPolicy string

const (
	FormatsAll     FormatPolicy = "all"
	FormatsLimited FormatPolicy = "limited"
)

// Plan is the static configuration of one pricing tier.
type Plan struct {
	Name           PlanName     `json:"name"`
	DisplayName    string       `json:"display_name"`
	Price          float64      `json:"price"` // USD per month
	MaxProducts    int          `json:"max_products"` // 0 = unlimited
	UpdateInterval int          `json:"update_interval"` // minutes
	Formats        FormatPolicy `json:"formats"`
	LimitedFormats []string     `json:"limited_formats,omitempty"`
	Features       []string     `json:"features"`
}

// Plans is the full tier table, keyed by plan name.
var Plans = map[PlanName]Plan{
	PlanFree: {
		Name:           PlanFree,
		DisplayName:    "Free",
		Price:          0,
		MaxProducts:    100,
		UpdateInterval: 1440,
		Formats:        FormatsLimited,
		LimitedFormats: []string{"google-shopping", "facebook", "yandex-yml"},
		Features: []string{
			"3 basic formats (Google, Facebook, Yandex)",
			"Up to 100 products",
			"Daily updates",
			"Email support",
		},
	},
	PlanBasic: {
		Name:           PlanBasic,
		DisplayName:    "Basic",
		Price:          9.99,
		MaxProducts:    1000,
		UpdateInterval: 360,
		Formats:        FormatsAll,
		Features: []string{
			"All 22+ formats",
			"Up to 1,000 products",
			"Updates every 6 hours",
			"Priority email support",
			"Webhook invalidation",
		},
	},
	PlanPro: {
		Name:           PlanPro,
		DisplayName:    "Pro",
		Price:          29.99,
		MaxProducts:    0,
		UpdateInterval: 60,
		Formats:        FormatsAll,
		Features: []string{
			"All 22+ formats",
			"Unlimited products",
			"Updates every hour",
			"Priority support (24h response)",
			"Webhook invalidation",
			"Custom format requests",
			"Feed customization",
		},
	},
	PlanEnterprise: {
		Name:           PlanEnterprise,
		DisplayName:    "Enterprise",
		Price:          99.0,
		MaxProducts:    0,
		UpdateInterval: 15,
		Formats:        FormatsAll,
		Features: []string{
			"All formats + custom formats",
			"Unlimited products",
			"Updates every 15 minutes",
			"Dedicated support manager",
			"White-label feeds",
			"API access",
			"Multi-store (up to 5 stores)",
			"SLA guarantee",
		},
	},
}

// SubscriptionStatus is the lifecycle state of a shop subscription.
type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "active"
	SubTrial     SubscriptionStatus = "trial"
	SubCancelled SubscriptionStatus = "cancelled"
	SubExpired   SubscriptionStatus = "expired"
)

// Subscription ties a shop to its current plan.
type Subscription struct {
	ID          uuid.UUID          `json:"id"`
	Shop        string             `json:"shop"`
	PlanName    PlanName           `json:"plan_name"`
	Status      SubscriptionStatus `json:"status"`
	ChargeID    string             `json:"charge_id,omitempty"`
	ActivatedAt time.Time          `json:"activated_at"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	TrialEndsAt *time.Time         `json:"trial_ends_at,omitempty"`
}

// RecommendedPlan picks the cheapest tier whose product ceiling covers count.
func RecommendedPlan(productsCount int) PlanName {
	switch {
	case productsCount <= 100:
		return PlanFree
	case productsCount <= 1000:
		return PlanBasic
	default:
		return PlanPro
	}
}
