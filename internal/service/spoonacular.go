package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrSpoonacularNotConfigured is returned when no API key is set.
var ErrSpoonacularNotConfigured = errors.New("spoonacular API key not configured")

// SpoonacularService is a thin bridge to the Spoonacular recipe-search
// API.
type SpoonacularService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSpoonacularService(apiKey, baseURL string) *SpoonacularService {
	return &SpoonacularService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SpoonacularRecipe is the subset of the upstream recipe payload the
// platform cares about.
type SpoonacularRecipe struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Image        string   `json:"image"`
	ReadyMinutes int      `json:"readyInMinutes"`
	Cuisines     []string `json:"cuisines"`
	Diets        []string `json:"diets"`
	Ingredients  []struct {
		Original string `json:"original"`
	} `json:"extendedIngredients"`
	Instructions []struct {
		Steps []struct {
			Step string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

// Search runs a complexSearch query and returns the matching recipes.
func (s *SpoonacularService) Search(ctx context.Context, query string, number int) ([]SpoonacularRecipe, error) {
	if s.apiKey == "" {
		return nil, ErrSpoonacularNotConfigured
	}
	if number <= 0 || number > 25 {
		number = 10
	}

	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("query", query)
	params.Set("number", strconv.Itoa(number))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")

	endpoint := fmt.Sprintf("%s/recipes/complexSearch?%s", s.baseURL, params.Encode())

	var result struct {
		Results []SpoonacularRecipe `json:"results"`
	}
	if err := s.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// GetRecipe fetches full information for a single upstream recipe.
func (s *SpoonacularService) GetRecipe(ctx context.Context, id int) (*SpoonacularRecipe, error) {
	if s.apiKey == "" {
		return nil, ErrSpoonacularNotConfigured
	}

	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("includeNutrition", "false")

	endpoint := fmt.Sprintf("%s/recipes/%d/information?%s", s.baseURL, id, params.Encode())

	var recipe SpoonacularRecipe
	if err := s.getJSON(ctx, endpoint, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// getJSON performs a GET with a bounded retry on 5xx and 429 responses.
func (s *SpoonacularService) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
		} else {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return fmt.Errorf("failed to read response: %w", readErr)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
				if err := json.Unmarshal(body, out); err != nil {
					return fmt.Errorf("failed to decode response: %w", err)
				}
				return nil
			case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			default:
				return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			}
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return lastErr
}

// IngredientLines flattens the upstream ingredient objects into plain lines.
func (r *SpoonacularRecipe) IngredientLines() []string {
	lines := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Original != "" {
			lines = append(lines, ing.Original)
		}
	}
	return lines
}

// InstructionSteps flattens the upstream analyzed instructions.
func (r *SpoonacularRecipe) InstructionSteps() []string {
	var steps []string
	for _, block := range r.Instructions {
		for _, s := range block.Steps {
			if s.Step != "" {
				steps = append(steps, s.Step)
			}
		}
	}
	return steps
}
