package repo

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// DiscountRate is the fraction of the original price charged for seeded plans.
const DiscountRate = 0.17

// DiscountedPrice returns round(original * DiscountRate), never below 1.
func DiscountedPrice(original int) int {
	p := int(math.Round(float64(original) * DiscountRate))
	if p < 1 {
		p = 1
	}
	return p
}

type seedOperator struct {
	name, code, color string
	fontSize          int
	plans             []seedPlan
}

type seedPlan struct {
	price                int
	data, validity, kind string
}

var catalog = []seedOperator{
	{name: "Jio", code: "jio", color: "#0066CC", fontSize: 18, plans: []seedPlan{
		{999, "2GB/day", "84 days", "Popular"},
		{666, "1.5GB/day", "84 days", "Value"},
		{395, "6GB total", "28 days", "Basic"},
		{2999, "2.5GB/day", "365 days", "Annual"},
		{719, "1.5GB/day", "84 days", "Special"},
	}},
	{name: "Airtel", code: "airtel", color: "#E60012", fontSize: 14, plans: []seedPlan{
		{1199, "2GB/day", "84 days", "Popular"},
		{719, "1.5GB/day", "84 days", "Value"},
		{449, "3GB total", "28 days", "Basic"},
		{3359, "2.5GB/day", "365 days", "Annual"},
		{839, "2GB/day", "56 days", "Special"},
	}},
	{name: "Vi", code: "vi", color: "#9D4EDD", fontSize: 20, plans: []seedPlan{
		{999, "1.5GB/day", "84 days", "Popular"},
		{666, "1GB/day", "84 days", "Value"},
		{379, "6GB total", "28 days", "Basic"},
		{3499, "2GB/day", "365 days", "Annual"},
		{699, "1.5GB/day", "70 days", "Special"},
	}},
	{name: "BSNL", code: "bsnl", color: "#FF8500", fontSize: 14, plans: []seedPlan{
		{797, "2GB/day", "84 days", "Popular"},
		{599, "1GB/day", "84 days", "Value"},
		{349, "3GB total", "28 days", "Basic"},
		{2399, "2GB/day", "365 days", "Annual"},
		{697, "1.5GB/day", "74 days", "Special"},
	}},
}

// SeedCatalog inserts the built-in operators and their plans in a single
// transaction. It does nothing when at least one operator already exists and
// reports whether rows were written.
func SeedCatalog(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Operator{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, so := range catalog {
			logo := logoDataURI(so.name, so.color, so.fontSize)
			op := &domain.Operator{Name: so.name, Code: so.code, BrandColor: so.color, LogoURL: &logo}
			if err := CreateOperator(ctx, tx, op); err != nil {
				return fmt.Errorf("seed operator %s: %w", so.code, err)
			}
			for _, sp := range so.plans {
				p := &domain.RechargePlan{
					OperatorID:      op.ID,
					OriginalPrice:   sp.price,
					DiscountedPrice: DiscountedPrice(sp.price),
					Data:            sp.data,
					Validity:        sp.validity,
					Calls:           "Unlimited",
					Type:            sp.kind,
					IsActive:        true,
				}
				if err := CreatePlan(ctx, tx, p); err != nil {
					return fmt.Errorf("seed plan %s/%s: %w", so.code, sp.kind, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// logoDataURI renders a rounded brand-colored badge with the operator name.
func logoDataURI(name, color string, fontSize int) string {
	svg := fmt.Sprintf(`<svg width="80" height="40" viewBox="0 0 80 40" fill="none" xmlns="http://www.w3.org/2000/svg">
<rect width="80" height="40" rx="8" fill="%s"/>
<text x="40" y="28" font-family="Arial, sans-serif" font-size="%d" font-weight="bold" fill="white" text-anchor="middle">%s</text>
</svg>`, color, fontSize, name)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
