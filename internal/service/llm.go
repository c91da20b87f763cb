package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/platefeed/backend/internal/model"
)

// LLMService generates recipes through a chat-completions API and keeps
// in-progress drafts in Redis.
type LLMService struct {
	apiKey string
	apiURL string
	client *http.Client
	redis  *redis.Client
}

// NewLLMService creates a new LLMService instance. The API key comes from
// LLM_API_KEY or, for Docker secrets, LLM_API_KEY_FILE.
func NewLLMService(redisClient *redis.Client) (*LLMService, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("LLM_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("LLM_API_KEY or LLM_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("LLM_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 60 * time.Second},
		redis:  redisClient,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the chat-completions API
type Request struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

const recipeSystemPrompt = `You are a professional chef and nutritionist. Write the recipe as plain text with these labeled sections, each on its own line:

A short description of the dish comes first, before any section label.

CUISINE: the cuisine, one or two words
DIET: the diet type, one or two words
COOKING TIME: total time, e.g. "45 minutes" or "2 hours"
NUTRITION: one line like "400 calories, 30g protein, 10g fat, 50g carbohydrates"
INGREDIENTS:
- one ingredient per line with a leading dash
INSTRUCTIONS:
1. one numbered step per line

Do not add any other sections.`

// RecipeDraft represents a recipe in draft state, parked in Redis until
// the user saves or discards it.
type RecipeDraft struct {
	ID         uuid.UUID        `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Name       string           `json:"name"`
	RawText    string           `json:"raw_text"`
	Properties RecipeProperties `json:"properties"`
	UserID     uuid.UUID        `json:"user_id"`
}

// RenderRecipeText flattens a stored recipe back into the labeled text
// layout the model is prompted with, so a modify request can show the
// model the recipe's current state.
func RenderRecipeText(recipe *model.Recipe) string {
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	var b strings.Builder
	if recipe.Description != "" {
		b.WriteString(recipe.Description + "\n\n")
	}
	if recipe.Cuisine != "" {
		fmt.Fprintf(&b, "CUISINE: %s\n", recipe.Cuisine)
	}
	if recipe.Diet != "" {
		fmt.Fprintf(&b, "DIET: %s\n", recipe.Diet)
	}
	if recipe.CookingTime != "" {
		fmt.Fprintf(&b, "COOKING TIME: %s\n", recipe.CookingTime)
	}
	if recipe.Calories > 0 || recipe.Protein > 0 || recipe.Fat > 0 || recipe.Carbs > 0 {
		fmt.Fprintf(&b, "NUTRITION: %s calories, %sg protein, %sg fat, %sg carbohydrates\n",
			num(recipe.Calories), num(recipe.Protein), num(recipe.Fat), num(recipe.Carbs))
	}
	if len(recipe.Ingredients) > 0 {
		b.WriteString("INGREDIENTS:\n")
		for _, ingredient := range recipe.Ingredients {
			b.WriteString("- " + ingredient + "\n")
		}
	}
	if len(recipe.Instructions) > 0 {
		b.WriteString("INSTRUCTIONS:\n")
		for i, step := range recipe.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// GenerateRecipeText asks the LLM for a recipe and returns the raw
// free-text blob. Callers run it through
// ExtractRecipePropertiesFromMarkdown to get structured data.
func (s *LLMService) GenerateRecipeText(ctx context.Context, query string, dietaryPrefs, allergens []string, original *RecipeDraft) (string, error) {
	var prompt string
	if original != nil {
		prompt = fmt.Sprintf("Modify this recipe.\n\nOriginal recipe:\n%s\n\nModification request: %s",
			original.RawText, query)
	} else {
		prompt = fmt.Sprintf("Generate a recipe for: %s", query)
		if len(dietaryPrefs) > 0 {
			prompt += ". The recipe should be suitable for: " + strings.Join(dietaryPrefs, ", ")
		}
		if len(allergens) > 0 {
			prompt += ". Avoid using: " + strings.Join(allergens, ", ")
		}
	}

	messages := []Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: prompt},
	}

	reqBody := Request{
		Model:            "deepseek-chat",
		Messages:         messages,
		Temperature:      0.9,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}

	content, err := s.complete(ctx, reqBody)
	if err != nil {
		return "", err
	}
	return content, nil
}

// CalculateMacros estimates the macronutrients for a set of ingredients.
// Used as a fallback when the generated text had no parsable NUTRITION
// line.
func (s *LLMService) CalculateMacros(ctx context.Context, ingredients []string) (*Macros, error) {
	prompt := "Provide an approximate macronutrient breakdown as JSON with fields calories, protein, carbs and fat for the following ingredients:\n" + strings.Join(ingredients, "\n")
	messages := []Message{
		{
			Role:    "system",
			Content: "You are a nutrition expert. Respond only with JSON like {\"calories\":0,\"protein\":0,\"carbs\":0,\"fat\":0}",
		},
		{Role: "user", Content: prompt},
	}

	content, err := s.complete(ctx, Request{Model: "deepseek-chat", Messages: messages})
	if err != nil {
		return nil, err
	}

	var macros Macros
	if err := json.Unmarshal([]byte(content), &macros); err != nil {
		return nil, fmt.Errorf("failed to parse macros: %w", err)
	}
	return &macros, nil
}

// Macros represents nutritional macros information
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// MacrosFromNutrition converts the extractor's sentinel-bearing nutrition
// strings into numeric macros. Unknown values stay zero.
func MacrosFromNutrition(facts NutritionFacts) Macros {
	parse := func(v string) float64 {
		if v == UnknownValue {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return Macros{
		Calories: parse(facts.Calories),
		Protein:  parse(facts.Protein),
		Carbs:    parse(facts.Carbohydrates),
		Fat:      parse(facts.Fat),
	}
}

func (s *LLMService) complete(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// SaveDraft saves a recipe draft to Redis
func (s *LLMService) SaveDraft(ctx context.Context, draft *RecipeDraft) error {
	draft.ID = uuid.New()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("recipe:draft:%s", draft.ID)
	if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}

	return nil
}

// GetDraft retrieves a recipe draft from Redis
func (s *LLMService) GetDraft(ctx context.Context, id string) (*RecipeDraft, error) {
	key := fmt.Sprintf("recipe:draft:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

// DeleteDraft removes a recipe draft from Redis
func (s *LLMService) DeleteDraft(ctx context.Context, id string) error {
	key := fmt.Sprintf("recipe:draft:%s", id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
