// Package category guesses a chore's category from its title.
package category

import (
	"strings"
	"unicode"

	"github.com/dukerupert/choreboard/internal/model"
)

// Infer returns the category whose keywords appear in title, or
// model.CategoryOther. Phrases are tried before single words, so
// "clean the gutters" is maintenance rather than cleaning.
func Infer(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return model.CategoryOther
	}

	joined := " " + strings.Join(words, " ") + " "
	for _, p := range phrases {
		if strings.Contains(joined, " "+p.text+" ") {
			return p.category
		}
	}

	for _, w := range words {
		if cat, ok := keywords[w]; ok {
			return cat
		}
		if cat, ok := keywords[strings.TrimSuffix(w, "s")]; ok {
			return cat
		}
	}
	return model.CategoryOther
}

type phrase struct {
	text     string
	category string
}

var phrases = []phrase{
	{"change air filter", model.CategoryMaintenance},
	{"air filter", model.CategoryMaintenance},
	{"smoke detector", model.CategoryMaintenance},
	{"light bulb", model.CategoryMaintenance},
	{"oil change", model.CategoryMaintenance},
	{"clean gutters", model.CategoryMaintenance},
	{"clean the gutters", model.CategoryMaintenance},
	{"meal prep", model.CategoryCooking},
	{"pack lunch", model.CategoryCooking},
	{"pack lunches", model.CategoryCooking},
	{"grocery run", model.CategoryShopping},
	{"take out trash", model.CategoryCleaning},
	{"take out the trash", model.CategoryCleaning},
	{"do the dishes", model.CategoryCleaning},
}

var keywords = map[string]string{
	// Cleaning
	"clean":      model.CategoryCleaning,
	"vacuum":     model.CategoryCleaning,
	"mop":        model.CategoryCleaning,
	"sweep":      model.CategoryCleaning,
	"dust":       model.CategoryCleaning,
	"scrub":      model.CategoryCleaning,
	"wipe":       model.CategoryCleaning,
	"tidy":       model.CategoryCleaning,
	"declutter":  model.CategoryCleaning,
	"laundry":    model.CategoryCleaning,
	"fold":       model.CategoryCleaning,
	"iron":       model.CategoryCleaning,
	"dish":       model.CategoryCleaning,
	"dishes":     model.CategoryCleaning,
	"dishwasher": model.CategoryCleaning,
	"trash":      model.CategoryCleaning,
	"garbage":    model.CategoryCleaning,
	"recycling":  model.CategoryCleaning,
	"toilet":     model.CategoryCleaning,
	"bathroom":   model.CategoryCleaning,
	"sheet":      model.CategoryCleaning,
	"bed":        model.CategoryCleaning,

	// Cooking
	"cook":      model.CategoryCooking,
	"bake":      model.CategoryCooking,
	"dinner":    model.CategoryCooking,
	"lunch":     model.CategoryCooking,
	"breakfast": model.CategoryCooking,
	"meal":      model.CategoryCooking,
	"prep":      model.CategoryCooking,
	"grill":     model.CategoryCooking,
	"recipe":    model.CategoryCooking,

	// Maintenance
	"fix":     model.CategoryMaintenance,
	"repair":  model.CategoryMaintenance,
	"replace": model.CategoryMaintenance,
	"mow":     model.CategoryMaintenance,
	"lawn":    model.CategoryMaintenance,
	"weed":    model.CategoryMaintenance,
	"rake":    model.CategoryMaintenance,
	"gutter":  model.CategoryMaintenance,
	"paint":   model.CategoryMaintenance,
	"furnace": model.CategoryMaintenance,
	"hvac":    model.CategoryMaintenance,
	"filter":  model.CategoryMaintenance,
	"leak":    model.CategoryMaintenance,
	"faucet":  model.CategoryMaintenance,
	"water":   model.CategoryMaintenance,
	"snow":    model.CategoryMaintenance,
	"shovel":  model.CategoryMaintenance,

	// Shopping
	"buy":       model.CategoryShopping,
	"shop":      model.CategoryShopping,
	"shopping":  model.CategoryShopping,
	"grocery":   model.CategoryShopping,
	"groceries": model.CategoryShopping,
	"order":     model.CategoryShopping,
	"errand":    model.CategoryShopping,
	"store":     model.CategoryShopping,
	"pharmacy":  model.CategoryShopping,
}
