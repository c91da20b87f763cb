package service

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownValue is the sentinel stored in any scalar field the extractor
// could not find. Callers depend on this being a literal string, never "".
const UnknownValue = "unknown"

// NutritionFacts holds per-recipe nutrition values as numeric strings.
// A nutrient that was not present in the source text is "unknown".
type NutritionFacts struct {
	Calories      string `json:"calories"`
	Protein       string `json:"protein"`
	Fat           string `json:"fat"`
	Carbohydrates string `json:"carbohydrates"`
}

// RecipeProperties is the structured result of parsing a free-form recipe
// text blob. List fields are never nil and scalar fields are never empty;
// absence is an empty list or the "unknown" sentinel.
type RecipeProperties struct {
	Description      string         `json:"description"`
	Ingredients      []string       `json:"ingredients"`
	Instructions     []string       `json:"instructions"`
	Nutrition        NutritionFacts `json:"nutrition"`
	CuisineType      string         `json:"cuisine_type"`
	DietType         string         `json:"diet_type"`
	CookingTime      string         `json:"cooking_time"`
	CookingTimeValue int            `json:"cooking_time_value,omitempty"`
}

// sectionLabels are the recognized headers, matched case-insensitively at
// the start of a line.
var sectionLabels = []string{
	"CUISINE:",
	"DIET:",
	"COOKING TIME:",
	"NUTRITION:",
	"INGREDIENTS:",
	"INSTRUCTIONS:",
}

var (
	reBlankRuns     = regexp.MustCompile(`\n{3,}`)
	reSectionBound  = regexp.MustCompile(`^[A-Z]+:`)
	reFirstInt      = regexp.MustCompile(`\d+`)
	reHours         = regexp.MustCompile(`(?i)(\d+)\s*hours?`)
	reCalories      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:calories|kcal|cal)`)
	reProtein       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g\s*(?:of\s+)?protein`)
	reFat           = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g\s*(?:of\s+)?fat`)
	reCarbs         = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g\s*(?:of\s+)?(?:carbohydrates|carbs)`)
	reBullet        = regexp.MustCompile(`^[-*]\s*`)
	reNumericMarker = regexp.MustCompile(`^\d+\.\s*`)
	reStepPrefix    = regexp.MustCompile(`(?i)^step\s+(?:\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s*[:./-]\s*`)
	reBareNumber    = regexp.MustCompile(`^\d+$`)
	reNoteLine      = regexp.MustCompile(`(?i)^(?:notes?|tips?):?$`)
)

// ExtractRecipePropertiesFromMarkdown parses the loosely labeled recipe
// text produced by the LLM into a RecipeProperties record. The input is
// uncontrolled generative output, so the function never fails: missing or
// malformed sections degrade to empty lists and "unknown" sentinels.
func ExtractRecipePropertiesFromMarkdown(text string) RecipeProperties {
	props := RecipeProperties{
		Ingredients:  []string{},
		Instructions: []string{},
		Nutrition: NutritionFacts{
			Calories:      UnknownValue,
			Protein:       UnknownValue,
			Fat:           UnknownValue,
			Carbohydrates: UnknownValue,
		},
		CuisineType: UnknownValue,
		DietType:    UnknownValue,
		CookingTime: UnknownValue,
	}

	lines := normalizeLines(text)
	if len(lines) == 0 {
		return props
	}

	props.Description = extractDescription(lines)

	if v := scalarAfterLabel(lines, "CUISINE:"); v != "" {
		props.CuisineType = strings.ToLower(v)
	}
	if v := scalarAfterLabel(lines, "DIET:"); v != "" {
		props.DietType = strings.ToLower(v)
	}

	if minutes, ok := extractCookingMinutes(lines); ok {
		props.CookingTimeValue = minutes
		props.CookingTime = strconv.Itoa(minutes) + " mins"
	}

	if line, ok := firstLineWithLabel(lines, "NUTRITION:"); ok {
		props.Nutrition = extractNutrition(line)
	}

	for _, raw := range sectionLines(lines, "INGREDIENTS:") {
		item := strings.TrimSpace(reBullet.ReplaceAllString(raw, ""))
		if item == "" {
			continue
		}
		props.Ingredients = append(props.Ingredients, item)
	}

	for _, raw := range sectionLines(lines, "INSTRUCTIONS:") {
		step := strings.TrimSpace(reNumericMarker.ReplaceAllString(raw, ""))
		step = strings.TrimSpace(reStepPrefix.ReplaceAllString(step, ""))
		if step == "" || reBareNumber.MatchString(step) || reNoteLine.MatchString(step) {
			// Numbering and "Notes"/"Tips" artifacts from the generative
			// source, not genuine steps.
			continue
		}
		props.Instructions = append(props.Instructions, step)
	}

	return props
}

// normalizeLines canonicalizes line endings, caps runs of blank lines,
// trims every line and drops the empty ones.
func normalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// isSectionHeader reports whether the line starts with one of the
// recognized labels, ignoring case.
func isSectionHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, label := range sectionLabels {
		if strings.HasPrefix(upper, label) {
			return true
		}
	}
	return false
}

// extractDescription joins everything before the first recognized header.
// When no header exists the whole input is the description.
func extractDescription(lines []string) string {
	var parts []string
	for _, line := range lines {
		if isSectionHeader(line) {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func firstLineWithLabel(lines []string, label string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), label) {
			return strings.TrimSpace(line[len(label):]), true
		}
	}
	return "", false
}

func scalarAfterLabel(lines []string, label string) string {
	v, _ := firstLineWithLabel(lines, label)
	return v
}

// extractCookingMinutes reads the COOKING TIME line. An "N hours" value is
// converted to minutes; otherwise the first integer on the line is taken
// as minutes already.
func extractCookingMinutes(lines []string) (int, bool) {
	line, ok := firstLineWithLabel(lines, "COOKING TIME:")
	if !ok {
		return 0, false
	}
	if m := reHours.FindStringSubmatch(line); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil {
			return hours * 60, true
		}
	}
	if m := reFirstInt.FindString(line); m != "" {
		minutes, err := strconv.Atoi(m)
		if err == nil {
			return minutes, true
		}
	}
	return 0, false
}

// extractNutrition scans one line for the four nutrient sub-patterns. The
// patterns are independent, so clause order in the source text does not
// matter.
func extractNutrition(line string) NutritionFacts {
	facts := NutritionFacts{
		Calories:      UnknownValue,
		Protein:       UnknownValue,
		Fat:           UnknownValue,
		Carbohydrates: UnknownValue,
	}
	if m := reCalories.FindStringSubmatch(line); m != nil {
		facts.Calories = m[1]
	}
	if m := reProtein.FindStringSubmatch(line); m != nil {
		facts.Protein = m[1]
	}
	if m := reFat.FindStringSubmatch(line); m != nil {
		facts.Fat = m[1]
	}
	if m := reCarbs.FindStringSubmatch(line); m != nil {
		facts.Carbohydrates = m[1]
	}
	return facts
}

// sectionLines collects the lines following the named header up to the
// next section boundary. The boundary match is any all-caps word followed
// by a colon, so an ingredient like "SALT: to taste" ends the section
// early; the upstream text source never emits such lines in practice.
func sectionLines(lines []string, label string) []string {
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToUpper(line), label) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var out []string
	for _, line := range lines[start:] {
		if reSectionBound.MatchString(line) || isSectionHeader(line) {
			break
		}
		out = append(out, line)
	}
	return out
}
