package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"phone-analytics/models"
	"phone-analytics/utils"
)

const topValueCount = 5

// CatalogInsightService computes dashboard statistics over the catalog.
type CatalogInsightService struct {
	logger        *utils.Logger
	referenceYear int
}

func NewCatalogInsightService(logger *utils.Logger, referenceYear int) *CatalogInsightService {
	return &CatalogInsightService{logger: logger, referenceYear: referenceYear}
}

func (s *CatalogInsightService) Generate(products []*models.Product) *models.CatalogReport {
	report := &models.CatalogReport{
		ProductsByBrand: make(map[string]int),
		TopValue:        []*models.Recommendation{},
	}
	if len(products) == 0 {
		return report
	}
	report.TotalProducts = len(products)

	var priced []*models.Product
	for _, p := range products {
		if p.Price > 0 {
			priced = append(priced, p)
		}
		brand := p.Brand
		if brand == "" {
			brand = "unknown"
		}
		report.ProductsByBrand[brand]++
	}

	// Price stats ignore products without a price.
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		report.MostExpensive = priced[0]
		var total float64
		for _, p := range priced {
			total += p.Price
			if p.Price < report.MinPrice {
				report.MinPrice = p.Price
			}
			if p.Price > report.MaxPrice {
				report.MaxPrice = p.Price
				report.MostExpensive = p
			}
		}
		report.AveragePrice = roundCents(total / float64(len(priced)))
		report.MinPrice = roundCents(report.MinPrice)
		report.MaxPrice = roundCents(report.MaxPrice)

		ranked := Rank(priced, s.referenceYear)
		if len(ranked) > topValueCount {
			ranked = ranked[:topValueCount]
		}
		report.TopValue = ranked
	}

	s.logger.Debug("[insights] Report over %d products, %d priced", report.TotalProducts, len(priced))
	return report
}

// Print renders r as a terminal dashboard.
func (s *CatalogInsightService) Print(w io.Writer, r *models.CatalogReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📱 PHONE CATALOG INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total products : \033[1m%d\033[0m\n", r.TotalProducts)
	fmt.Fprintf(w, "  Brands         : \033[1m%d\033[0m\n\n", len(r.ProductsByBrand))

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (USD)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Phone\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Fprintf(w, "  Brand : %s\n", r.MostExpensive.Brand)
		fmt.Fprintf(w, "  Price : \033[1;31m$%.2f\033[0m\n\n", r.MostExpensive.Price)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Best Value\033[0m\n", topValueCount)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopValue) == 0 {
		fmt.Fprintf(w, "  No priced products found\n")
	}
	for i, rec := range r.TopValue {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-34s %-12s \033[1;32m%.1f/10\033[0m\n",
			i+1, truncate(rec.Product.Name, 32), rec.MarketPosition, rec.ValueScore)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Products by Brand\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ProductsByBrand) == 0 {
		fmt.Fprintf(w, "  No brand data\n")
	}
	type brandCount struct {
		brand string
		count int
	}
	counts := make([]brandCount, 0, len(r.ProductsByBrand))
	for b, n := range r.ProductsByBrand {
		counts = append(counts, brandCount{b, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].brand < counts[j].brand
	})
	for _, bc := range counts {
		fmt.Fprintf(w, "  %-20s %s (%d)\n", truncate(bc.brand, 18), strings.Repeat("█", bc.count), bc.count)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
