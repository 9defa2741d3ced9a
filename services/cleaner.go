package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"phone-analytics/models"
	"phone-analytics/utils"
)

var (
	// numberRegexp captures the first decimal number in a string
	numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// screenRegexp captures inch values like 6.7" or 6.1 inches
	screenRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:"|in\b|inch)`)
)

// Field aliases seen across catalog sources, in lookup order.
var (
	idKeys        = []string{"id", "_id", "product_id"}
	nameKeys      = []string{"name", "model", "model_name", "title"}
	brandKeys     = []string{"brand", "company", "company_name"}
	priceKeys     = []string{"price", "launched_price", "price_usd"}
	ramKeys       = []string{"ram", "memory"}
	batteryKeys   = []string{"battery", "battery_capacity"}
	screenKeys    = []string{"screen", "screen_size", "display"}
	storageKeys   = []string{"storage", "rom", "internal_storage"}
	cameraKeys    = []string{"back_camera", "camera", "main_camera"}
	processorKeys = []string{"processor", "chipset", "cpu"}
	yearKeys      = []string{"year", "launch_year", "launched_year"}
	imageKeys     = []string{"image", "image_url", "img"}
)

// Cleaner turns loosely typed product records into Products.
type Cleaner struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger, now: time.Now}
}

// Clean normalizes raw records, drops nameless ones and removes duplicates
// by id, or by brand and name when no id is present.
func (c *Cleaner) Clean(raw []models.RawProduct) []*models.Product {
	seen := utils.NewKeySet()
	result := make([]*models.Product, 0, len(raw))
	fetchedAt := c.now().UTC()

	for _, r := range raw {
		name := normaliseText(firstString(r, nameKeys))
		if name == "" {
			c.logger.Warn("[cleaner] Dropping product without a name: %v", r)
			continue
		}

		p := &models.Product{
			ID:           firstString(r, idKeys),
			Name:         name,
			Brand:        normalizeBrand(normaliseText(firstString(r, brandKeys))),
			Price:        parseNumber(first(r, priceKeys)),
			RAM:          parseNumber(first(r, ramKeys)),
			Battery:      parseNumber(first(r, batteryKeys)),
			ScreenSize:   parseScreen(first(r, screenKeys)),
			StorageGb:    parseNumber(first(r, storageKeys)),
			MainCameraMp: parseNumber(first(r, cameraKeys)),
			ProcessorID:  normaliseText(firstString(r, processorKeys)),
			LaunchYear:   int(parseNumber(first(r, yearKeys))),
			ImageURL:     strings.TrimSpace(firstString(r, imageKeys)),
			FetchedAt:    fetchedAt,
		}

		key := p.ID
		if key == "" {
			key = p.Brand + "|" + strings.ToLower(p.Name)
		}
		if !seen.Add(key) {
			c.logger.Debug("[cleaner] Duplicate product skipped: %s", key)
			continue
		}
		if p.ID == "" {
			p.ID = key
		}

		result = append(result, p)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d products (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

func first(r models.RawProduct, keys []string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(r models.RawProduct, keys []string) string {
	switch v := first(r, keys).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// parseNumber coerces JSON numbers and strings like "$1,299", "8 GB" or
// "5000mAh". Unparseable or negative values become 0.
func parseNumber(v any) float64 {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case int:
		n = float64(x)
	case string:
		match := numberRegexp.FindString(strings.ReplaceAll(x, ",", ""))
		if match == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

// parseScreen prefers an explicit inch value, so "1080x2400, 6.5 inches"
// yields 6.5 rather than 1080.
func parseScreen(v any) float64 {
	if s, ok := v.(string); ok {
		if m := screenRegexp.FindStringSubmatch(s); len(m) == 2 {
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				return n
			}
		}
	}
	return parseNumber(v)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
