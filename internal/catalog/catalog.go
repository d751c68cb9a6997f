// Package catalog содержит статический каталог тарифных планов: категория,
// скорость, цена и описание. Каталог неизменяем во время работы сервиса.
package catalog

import (
	"fmt"
	"sort"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// Plan: тарифный план из каталога.
type Plan struct {
	Category    string  `json:"category"`
	Tier        string  `json:"tier"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Category: категория планов с упорядоченным списком скоростей.
type Category struct {
	Name  string `json:"name"`
	Plans []Plan `json:"plans"`
}

var plans = map[string]map[string]Plan{
	"CIDADE_FIBRA": {
		"300_MEGAS": {Price: 99.90, Description: "300 MEGAS - CIDADE FIBRA ÓPTICA"},
		"650_MEGAS": {Price: 119.90, Description: "650 MEGAS - CIDADE FIBRA ÓPTICA"},
		"800_MEGAS": {Price: 139.90, Description: "800 MEGAS - CIDADE FIBRA ÓPTICA"},
	},
	"RURAL_FIBRA": {
		"300_MEGAS": {Price: 109.90, Description: "300 MEGAS - RURAL FIBRA ÓPTICA"},
		"650_MEGAS": {Price: 129.90, Description: "650 MEGAS - RURAL FIBRA ÓPTICA"},
		"800_MEGAS": {Price: 149.90, Description: "800 MEGAS - RURAL FIBRA ÓPTICA"},
	},
	"RURAL_RADIO": {
		"4_MEGAS":  {Price: 109.90, Description: "4 MEGAS - RURAL VIA RÁDIO"},
		"8_MEGAS":  {Price: 129.90, Description: "8 MEGAS - RURAL VIA RÁDIO"},
		"14_MEGAS": {Price: 159.90, Description: "14 MEGAS - RURAL VIA RÁDIO"},
	},
}

// Lookup возвращает план по категории и скорости.
// Для неизвестного ключа возвращается ошибка, оборачивающая models.ErrNotFound.
func Lookup(category, tier string) (Plan, error) {
	tiers, ok := plans[category]
	if !ok {
		return Plan{}, fmt.Errorf("%w: unknown plan category %q", models.ErrNotFound, category)
	}
	p, ok := tiers[tier]
	if !ok {
		return Plan{}, fmt.Errorf("%w: unknown tier %q in category %q", models.ErrNotFound, tier, category)
	}
	p.Category = category
	p.Tier = tier
	return p, nil
}

// Categories возвращает весь каталог: категории по имени, планы внутри категории по цене.
func Categories() []Category {
	names := make([]string, 0, len(plans))
	for name := range plans {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Category, 0, len(names))
	for _, name := range names {
		c := Category{Name: name}
		for tier, p := range plans[name] {
			p.Category = name
			p.Tier = tier
			c.Plans = append(c.Plans, p)
		}
		sort.Slice(c.Plans, func(i, j int) bool {
			if c.Plans[i].Price == c.Plans[j].Price {
				return c.Plans[i].Tier < c.Plans[j].Tier
			}
			return c.Plans[i].Price < c.Plans[j].Price
		})
		result = append(result, c)
	}
	return result
}
