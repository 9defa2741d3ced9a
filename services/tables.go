package services

import "strings"

const defaultBrandMultiplier = 1.0

var brandMultipliers = map[string]float64{
	"apple":    2.5,
	"samsung":  1.2,
	"google":   1.3,
	"oneplus":  1.1,
	"xiaomi":   0.9,
	"oppo":     0.9,
	"vivo":     0.85,
	"motorola": 0.8,
	"realme":   0.75,
	"nokia":    0.75,
}

type processorInfo struct {
	score    int
	flagship bool
}

const defaultProcessorScore = 60

// Flagship is every chip with a base score of 90 or more.
var processors = map[string]processorInfo{
	"a17pro":        {98, true},
	"sd8g3":         {97, true},
	"a16":           {95, true},
	"dimensity9300": {95, true},
	"sd8g2":         {94, true},
	"exynos2400":    {92, true},
	"dimensity9200": {92, true},
	"a15":           {90, true},
	"sd8g1":         {90, true},
	"tensorg3":      {88, false},
	"tensorg2":      {85, false},
	"dimensity8300": {82, false},
	"sd7g3":         {80, false},
	"sd7sg2":        {76, false},
	"dimensity7200": {75, false},
	"exynos1380":    {72, false},
	"sd6g1":         {68, false},
	"heliog99":      {65, false},
}

var processorAliases = map[string]string{
	"snapdragon8gen3":       "sd8g3",
	"snapdragon8gen2":       "sd8g2",
	"snapdragon8gen1":       "sd8g1",
	"snapdragon7gen3":       "sd7g3",
	"snapdragon7sgen2":      "sd7sg2",
	"snapdragon6gen1":       "sd6g1",
	"a16bionic":             "a16",
	"a15bionic":             "a15",
	"googletensorg3":        "tensorg3",
	"googletensorg2":        "tensorg2",
	"mediatekdimensity9300": "dimensity9300",
	"mediatekdimensity9200": "dimensity9200",
	"mediatekheliog99":      "heliog99",
}

func brandMultiplier(brand string) float64 {
	if m, ok := brandMultipliers[normalizeBrand(brand)]; ok {
		return m
	}
	return defaultBrandMultiplier
}

func normalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

// normalizeProcessorID lower-cases the id, strips separators and resolves aliases.
func normalizeProcessorID(id string) string {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, strings.ToLower(id))
	if canonical, ok := processorAliases[key]; ok {
		return canonical
	}
	return key
}

func lookupProcessor(id string) processorInfo {
	if info, ok := processors[normalizeProcessorID(id)]; ok {
		return info
	}
	return processorInfo{score: defaultProcessorScore}
}
