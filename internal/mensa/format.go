package mensa

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

var mealIcons = map[MealType]string{
	Vegan:      "🌱",
	Vegetarian: "🥕",
	Meat:       "🍖",
	Fish:       "🐟",
	Pasta:      "🍝",
}

// Title is the first line of a menu message
func Title(day time.Time) string {
	return fmt.Sprintf("🍽️ Mensaplan für %s, %s", weekdays[day.Weekday()], day.Format("02.01.2006"))
}

// Format renders the menu of a day as plain text
func Format(day time.Time, meals []Meal) string {
	var b strings.Builder
	b.WriteString(Title(day))

	if len(meals) == 0 {
		b.WriteString("\n\nKeine Gerichte gefunden.")
		return b.String()
	}

	for _, m := range meals {
		fmt.Fprintf(&b, "\n\n%s %s\n%s", mealIcons[m.Type], m.Type, m.Name)

		components := "Keine Angaben"
		if len(m.Components) > 0 {
			components = strings.Join(m.Components, ", ")
		}
		fmt.Fprintf(&b, "\nZutaten: %s", components)

		fmt.Fprintf(&b, "\n💶 %s", m.Price)
		if len(m.Allergens) > 0 {
			fmt.Fprintf(&b, " · Allergene: %s", strings.Join(m.Allergens, ", "))
		}
	}
	return b.String()
}
