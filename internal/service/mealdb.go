package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMealNotFound is returned when TheMealDB has no meal with the given id.
var ErrMealNotFound = errors.New("meal not found")

// MealDBService is a bridge to TheMealDB public meal database.
type MealDBService struct {
	baseURL string
	client  *http.Client
}

func NewMealDBService(baseURL string) *MealDBService {
	return &MealDBService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Meal is the normalized form handed to the rest of the application. The
// upstream schema spreads ingredients over twenty numbered
// strIngredientN/strMeasureN columns; normalizeMeal folds them back into
// ordered lines.
type Meal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Area         string   `json:"area"`
	ImageURL     string   `json:"image_url"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// Lookup fetches one meal by id.
func (s *MealDBService) Lookup(ctx context.Context, id string) (*Meal, error) {
	endpoint := fmt.Sprintf("%s/lookup.php?i=%s", s.baseURL, url.QueryEscape(id))
	meals, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrMealNotFound
	}
	return &meals[0], nil
}

// Random fetches a random meal.
func (s *MealDBService) Random(ctx context.Context) (*Meal, error) {
	meals, err := s.fetch(ctx, s.baseURL+"/random.php")
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrMealNotFound
	}
	return &meals[0], nil
}

// SearchByName searches meals by name.
func (s *MealDBService) SearchByName(ctx context.Context, name string) ([]Meal, error) {
	endpoint := fmt.Sprintf("%s/search.php?s=%s", s.baseURL, url.QueryEscape(name))
	return s.fetch(ctx, endpoint)
}

func (s *MealDBService) fetch(ctx context.Context, endpoint string) ([]Meal, error) {
	const maxRetries = 3

	var body []byte
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
		} else {
			b, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, fmt.Errorf("failed to read response: %w", readErr)
			}
			if resp.StatusCode == http.StatusOK {
				body = b
				break
			}
			lastErr = fmt.Errorf("API request failed with status %d", resp.StatusCode)
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	if body == nil {
		return nil, lastErr
	}

	// The numbered strIngredientN/strMeasureN columns force a generic
	// decode before normalization.
	var payload struct {
		Meals []map[string]interface{} `json:"meals"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	meals := make([]Meal, 0, len(payload.Meals))
	for _, raw := range payload.Meals {
		meals = append(meals, normalizeMeal(raw))
	}
	return meals, nil
}

func normalizeMeal(raw map[string]interface{}) Meal {
	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	meal := Meal{
		ID:          str("idMeal"),
		Name:        str("strMeal"),
		Category:    str("strCategory"),
		Area:        str("strArea"),
		ImageURL:    str("strMealThumb"),
		Ingredients: []string{},
	}

	for i := 1; i <= 20; i++ {
		ingredient := str(fmt.Sprintf("strIngredient%d", i))
		if ingredient == "" {
			continue
		}
		measure := str(fmt.Sprintf("strMeasure%d", i))
		if measure != "" {
			meal.Ingredients = append(meal.Ingredients, measure+" "+ingredient)
		} else {
			meal.Ingredients = append(meal.Ingredients, ingredient)
		}
	}

	meal.Instructions = splitInstructions(str("strInstructions"))
	return meal
}

// splitInstructions breaks the upstream instruction blob into steps, one
// per non-empty line.
func splitInstructions(text string) []string {
	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, line)
	}
	if steps == nil {
		steps = []string{}
	}
	return steps
}
