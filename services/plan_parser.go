package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rishikeshvarma/NutriVision/models"
)

// Plan content arrives in one of two encodings: the current structured JSON
// document, or the legacy free-text format older plans were stored in. Both
// must stay parseable indefinitely. Parsing is total: any input that matches
// neither encoding degrades to a fallback that keeps the raw content
// viewable, it never fails.

var (
	sectionSplitRe = regexp.MustCompile(`---|\n## \d*\.? `)
	titleLineRe    = regexp.MustCompile(`^#\s*(.*)`)
	headingTrimRe  = regexp.MustCompile(`^#*\s*\d*\.?\s*`)
	boldRe         = regexp.MustCompile(`\*\*`)
	bulletRe       = regexp.MustCompile(`[-*]|\d+\.\s*`)
	totalsMarkerRe = regexp.MustCompile(`(?i)\*\*|total estimated daily nutrition:?`)

	caloriesRe = regexp.MustCompile(`(?i)calories:\s*\**(\d+)`)
	proteinRe  = regexp.MustCompile(`(?i)protein:\s*\**(\d+)`)
	carbsRe    = regexp.MustCompile(`(?i)carbohydrates?:\s*\**(\d+)`)
	fatsRe     = regexp.MustCompile(`(?i)fats:\s*\**(\d+)`)
)

const totalsMarker = "total estimated daily nutrition"

// ParsePlanContent normalizes raw plan content into a display-ready plan.
// Tries the structured JSON encoding first, then the legacy free-text one.
func ParsePlanContent(content string) models.ParsedPlan {
	if plan, ok := parseStructuredPlan(content); ok {
		return plan
	}
	if plan, ok := parseLegacyPlan(content); ok {
		return plan
	}
	return fallbackPlan(content)
}

// fallbackPlan preserves the raw payload so the caller can render a
// "plan unavailable, please regenerate" view instead of crashing.
func fallbackPlan(content string) models.ParsedPlan {
	return models.ParsedPlan{
		Title: "Diet Plan",
		Intro: content,
		Meals: []models.PlanMeal{},
	}
}

func parseStructuredPlan(content string) (models.ParsedPlan, bool) {
	var probe struct {
		Title  string          `json:"title"`
		Intro  string          `json:"intro"`
		Meals  json.RawMessage `json:"meals"`
		Totals json.RawMessage `json:"totals"`
	}
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return models.ParsedPlan{}, false
	}
	// Valid-but-wrong-shape JSON falls through to the legacy parser.
	if probe.Title == "" || probe.Intro == "" || len(probe.Meals) == 0 ||
		probe.Meals[0] != '[' {
		return models.ParsedPlan{}, false
	}

	var meals []models.PlanMeal
	if err := json.Unmarshal(probe.Meals, &meals); err != nil {
		return models.ParsedPlan{}, false
	}
	if len(meals) == 0 {
		return models.ParsedPlan{}, false
	}

	plan := models.ParsedPlan{Title: probe.Title, Intro: probe.Intro, Meals: meals}
	if len(probe.Totals) > 0 && probe.Totals[0] == '{' {
		var totals models.DailyTotals
		if err := json.Unmarshal(probe.Totals, &totals); err == nil {
			plan.Totals = &totals
		}
	}
	return plan, true
}

// parseLegacyPlan scrapes the free-text format: sections delimited by a
// horizontal rule or numbered "## N." headings, an optional daily-totals
// section pulled out of order, and one meal per remaining section.
func parseLegacyPlan(content string) (models.ParsedPlan, bool) {
	var sections []string
	for _, s := range sectionSplitRe.Split(content, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	if len(sections) == 0 {
		return models.ParsedPlan{}, false
	}

	header := sections[0]
	sections = sections[1:]

	title := "Your Diet Plan"
	intro := header
	headerLines := strings.SplitN(header, "\n", 2)
	if m := titleLineRe.FindStringSubmatch(headerLines[0]); m != nil {
		title = strings.TrimSpace(m[1])
		intro = ""
		if len(headerLines) > 1 {
			intro = strings.TrimSpace(headerLines[1])
		}
	}

	var totals *models.DailyTotals
	for i, s := range sections {
		if !strings.Contains(strings.ToLower(s), totalsMarker) {
			continue
		}
		lines := strings.Split(s, "\n")
		totals = &models.DailyTotals{
			Description: strings.TrimSpace(totalsMarkerRe.ReplaceAllString(lines[0], "")),
			Nutrition:   scanNutrition(strings.Join(lines[1:], "\n")),
		}
		sections = append(sections[:i], sections[i+1:]...)
		break
	}

	var meals []models.PlanMeal
	for _, s := range sections {
		meals = append(meals, parseLegacyMeal(s))
	}
	if len(meals) == 0 {
		return models.ParsedPlan{}, false
	}

	return models.ParsedPlan{Title: title, Intro: intro, Meals: meals, Totals: totals}, true
}

func parseLegacyMeal(section string) models.PlanMeal {
	lines := strings.Split(section, "\n")
	title := strings.TrimSpace(boldRe.ReplaceAllString(headingTrimRe.ReplaceAllString(lines[0], ""), ""))
	if title == "" {
		title = "Meal"
	}
	lines = lines[1:]

	keywordIdx := func(keyword string) int {
		for i, l := range lines {
			if strings.Contains(strings.ToLower(l), keyword) {
				return i
			}
		}
		return -1
	}
	ingredientsIdx := keywordIdx("ingredients")
	prepIdx := keywordIdx("preparation")
	nutritionIdx := keywordIdx("nutrition")

	end := len(lines)
	descEnd := end
	for _, idx := range []int{ingredientsIdx, prepIdx, nutritionIdx} {
		if idx > -1 {
			descEnd = idx
			break
		}
	}
	description := strings.TrimSpace(strings.Join(lines[:descEnd], " "))

	sliceBetween := func(from, to int) []string {
		if from < 0 {
			return nil
		}
		if to < 0 || to > end {
			to = end
		}
		if from+1 >= to {
			return nil
		}
		var out []string
		for _, l := range lines[from+1 : to] {
			if l = strings.TrimSpace(bulletRe.ReplaceAllString(l, "")); l != "" {
				out = append(out, l)
			}
		}
		return out
	}

	ingredientsEnd := prepIdx
	if ingredientsEnd < 0 {
		ingredientsEnd = nutritionIdx
	}
	ingredients := sliceBetween(ingredientsIdx, ingredientsEnd)
	preparation := sliceBetween(prepIdx, nutritionIdx)

	var nutrition models.Nutrition
	if nutritionIdx > -1 {
		nutrition = scanNutrition(strings.Join(lines[nutritionIdx:], " "))
	}

	return models.PlanMeal{
		Title:       title,
		Description: description,
		Ingredients: ingredients,
		Preparation: preparation,
		Nutrition:   nutrition,
	}
}

// scanNutrition pulls the four nutrition fields out of free text, defaulting
// any unmatched field to 0.
func scanNutrition(text string) models.Nutrition {
	field := func(re *regexp.Regexp) float64 {
		if m := re.FindStringSubmatch(text); m != nil {
			v, _ := strconv.ParseFloat(m[1], 64)
			return v
		}
		return 0
	}
	return models.Nutrition{
		Calories:      field(caloriesRe),
		Protein:       field(proteinRe),
		Carbohydrates: field(carbsRe),
		Fats:          field(fatsRe),
	}
}
