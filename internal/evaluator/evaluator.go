// Package evaluator computes discount percentages, filters products against
// a minimum threshold and ranks the survivors.
package evaluator

import (
	"fmt"
	"math"
	"sort"

	"discountfinder/internal/product"
	"discountfinder/logger"
	apperrors "discountfinder/pkg/errors"
)

// Compute returns the discount percentage for a price pair, rounded to one
// decimal place. Invalid price data yields a data error.
func Compute(currentPrice, originalPrice float64) (float64, error) {
	if originalPrice <= 0 {
		return 0, apperrors.NewData("evaluator", fmt.Sprintf("invalid original price: %v", originalPrice))
	}
	if currentPrice < 0 {
		return 0, apperrors.NewData("evaluator", fmt.Sprintf("invalid current price: %v", currentPrice))
	}
	if currentPrice > originalPrice {
		return 0, apperrors.NewData("evaluator", fmt.Sprintf("current price %v exceeds original price %v", currentPrice, originalPrice))
	}

	raw := (originalPrice - currentPrice) / originalPrice * 100
	return math.Round(raw*10) / 10, nil
}

// Evaluate fills in discount fields for each product, drops products with
// invalid price data or a discount below minDiscount, and returns the rest
// sorted by discount percentage descending. The sort is stable, so ties keep
// their input order.
func Evaluate(products []product.Product, minDiscount float64) []product.Product {
	log := logger.ForEvaluator()

	qualified := make([]product.Product, 0, len(products))
	for _, p := range products {
		percent, err := Compute(p.CurrentPrice, p.OriginalPrice)
		if err != nil {
			log.Debug().
				Str("asin", p.ASIN).
				Err(err).
				Msg("Skipping product with invalid price data")
			continue
		}

		p.DiscountPercent = percent
		p.DiscountAmount = p.OriginalPrice - p.CurrentPrice

		if percent < minDiscount {
			continue
		}
		qualified = append(qualified, p)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].DiscountPercent > qualified[j].DiscountPercent
	})

	return qualified
}
