package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"phone-analytics/models"
)

// render writes v as json or yaml, or calls text for the text format.
// A nil text falls back to yaml.
func render(w io.Writer, format string, v any, text func()) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		if text == nil {
			return render(w, "yaml", v, nil)
		}
		text()
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func printEstimate(w io.Writer, r *models.EstimationResult) {
	thin := strings.Repeat("─", 54)
	fmt.Fprintf(w, "\n\033[1;35m  📱 PHONE ESTIMATE\033[0m  (%s)\n", r.ModelUsed)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Price             : \033[1;32m$%.2f\033[0m  [%s, %d%%]\n", r.Price, r.PriceSource, r.PriceConfidence)
	fmt.Fprintf(w, "  Performance score : \033[1m%d\033[0m/100\n", r.PerformanceScore)
	fmt.Fprintf(w, "  Market position   : \033[1m%s\033[0m, %s\n", r.MarketPosition, r.MarketDescription)
	fmt.Fprintf(w, "  RAM               : %g GB  [%s, %d%%]\n", r.RAM.Value, r.RAM.Source, r.RAM.Confidence)
	fmt.Fprintf(w, "  Battery           : %g mAh  [%s, %d%%]\n", r.Battery.Value, r.Battery.Source, r.Battery.Confidence)
	fmt.Fprintf(w, "  Brand             : %s  [%s, %d%%]\n", r.Brand.Value, r.Brand.Source, r.Brand.Confidence)
	fmt.Fprintf(w, "  Overall confidence: %d%%\n", r.OverallConfidence)
	fmt.Fprintf(w, "  %s\n", thin)
	for _, insight := range r.Insights {
		fmt.Fprintf(w, "  • %s\n", insight)
	}
	fmt.Fprintln(w)
}

func printAdvanced(w io.Writer, e models.AdvancedEstimate) {
	fmt.Fprintf(w, "\n  %s%.2f %s  (model %s, %s, %d%% confidence)\n\n",
		e.CurrencySymbol, e.Price, e.Currency, e.ModelUsed, e.Source, e.Confidence)
}

func printRecommendations(w io.Writer, r models.RecommendationReport) {
	fmt.Fprintf(w, "\n\033[1;33m  Recommendations\033[0m (source: %s)\n", r.Source)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 54))
	if len(r.Items) == 0 {
		fmt.Fprintf(w, "  No matching phones\n\n")
		return
	}
	for i, rec := range r.Items {
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-28s %-10s $%8.2f  %-12s \033[1;32m%.1f/10\033[0m\n",
			i+1, rec.Product.Name, rec.Product.Brand, rec.Product.Price, rec.MarketPosition, rec.ValueScore)
	}
	fmt.Fprintln(w)
}
