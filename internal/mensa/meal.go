package mensa

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MealType is the OpenMensa category of the meals that are posted
type MealType string

const (
	Vegan      MealType = "Veganes Gericht"
	Vegetarian MealType = "Vegetarisches Gericht"
	Meat       MealType = "Fleischgericht"
	Fish       MealType = "Fischgericht"
	Pasta      MealType = "Pastateller"
)

var mealTypes = map[string]MealType{
	string(Vegan):      Vegan,
	string(Vegetarian): Vegetarian,
	string(Meat):       Meat,
	string(Fish):       Fish,
	string(Pasta):      Pasta,
}

// Notes that name an allergen. Compared lower-cased.
var allergens = map[string]bool{
	"gluten":         true,
	"weizen":         true,
	"roggen":         true,
	"gerste":         true,
	"hafer":          true,
	"dinkel":         true,
	"krebstiere":     true,
	"eier":           true,
	"fisch":          true,
	"erdnüsse":       true,
	"soja":           true,
	"milch":          true,
	"laktose":        true,
	"schalenfrüchte": true,
	"nüsse":          true,
	"sellerie":       true,
	"senf":           true,
	"sesam":          true,
	"schwefeldioxid": true,
	"sulfite":        true,
	"lupinen":        true,
	"weichtiere":     true,
}

// Notes that repeat the category and are not shown.
var droppedNotes = map[string]bool{
	"vegetarisch": true,
	"geflügel":    true,
	"schwein":     true,
	"vegan":       true,
}

var printer = message.NewPrinter(language.German)

// Price is a student price in euros
type Price float64

// String formats the price German style, e.g. "3,50 €".
func (p Price) String() string {
	return printer.Sprintf("%.2f €", float64(p))
}

// Meal is a posted meal
type Meal struct {
	Type       MealType
	Name       string
	Components []string
	Price      Price
	Allergens  []string
}

// Extract keeps the meals of known categories that have a name and a student
// price, in API order. Notes are sorted into allergens and components.
func Extract(raw []RawMeal) []Meal {
	var meals []Meal
	for _, r := range raw {
		mealType, ok := mealTypes[r.Category]
		if !ok || strings.TrimSpace(r.Name) == "" || r.Prices.Students == nil {
			continue
		}

		meal := Meal{
			Type:  mealType,
			Name:  strings.TrimSpace(r.Name),
			Price: Price(*r.Prices.Students),
		}

		seen := make(map[string]bool)
		for _, note := range r.Notes {
			note = strings.TrimSpace(note)
			key := strings.ToLower(note)
			if note == "" || seen[key] || droppedNotes[key] {
				continue
			}
			seen[key] = true
			if allergens[key] {
				meal.Allergens = append(meal.Allergens, note)
			} else {
				meal.Components = append(meal.Components, note)
			}
		}
		sort.Strings(meal.Allergens)
		sort.Strings(meal.Components)

		meals = append(meals, meal)
	}
	return meals
}
