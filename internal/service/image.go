package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefeed/backend/config"
)

// ErrImageGenNotConfigured is returned when no image generation API key is
// set. Uploads and mirroring still work without one.
var ErrImageGenNotConfigured = errors.New("image generation API key not configured")

// ImageService stores recipe and profile images in S3 and optionally
// generates them from a prompt.
type ImageService struct {
	genAPIKey string
	genAPIURL string
	s3Config  *config.S3Config
	client    *http.Client
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	apiURL := os.Getenv("OPENAI_IMAGES_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/images/generations"
	}

	return &ImageService{
		genAPIKey: os.Getenv("OPENAI_API_KEY"),
		genAPIURL: apiURL,
		s3Config:  s3Config,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadImage stores raw image bytes under a generated key and returns the
// public object URL.
func (s *ImageService) UploadImage(ctx context.Context, data []byte, contentType, prefix string) (string, error) {
	if s.s3Config == nil {
		return "", errors.New("S3 storage not configured")
	}
	key := fmt.Sprintf("%s/%s", prefix, uuid.New())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

// MirrorImageURL downloads an external image (e.g. a TheMealDB thumbnail)
// and re-hosts it in our bucket, with a bounded retry.
func (s *ImageService) MirrorImageURL(ctx context.Context, sourceURL, prefix string) (string, error) {
	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		url, err := s.mirrorAttempt(ctx, sourceURL, prefix)
		if err == nil {
			return url, nil
		}
		lastErr = err
		log.Printf("[ImageService] mirror attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return "", fmt.Errorf("failed to mirror image after %d attempts: %w", maxRetries, lastErr)
}

func (s *ImageService) mirrorAttempt(ctx context.Context, sourceURL, prefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return s.UploadImage(ctx, data, contentType, prefix)
}

type imageGenRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageGenResponse struct {
	Data []struct {
		URL string `json:"url,omitempty"`
	} `json:"data"`
}

// GenerateRecipeImage generates a photo for a recipe and re-hosts it in
// our bucket.
func (s *ImageService) GenerateRecipeImage(ctx context.Context, name, cuisine string) (string, error) {
	prompt := fmt.Sprintf("A professional food photograph of %s", name)
	if cuisine != "" {
		prompt += fmt.Sprintf(", %s cuisine", cuisine)
	}
	prompt += ", overhead shot, natural lighting, no text"

	return s.GenerateImageFromPrompt(ctx, prompt, "1024x1024")
}

// GenerateImageFromPrompt calls the image generation API with a bounded
// retry and stores the result in S3.
func (s *ImageService) GenerateImageFromPrompt(ctx context.Context, prompt, size string) (string, error) {
	if s.genAPIKey == "" {
		return "", ErrImageGenNotConfigured
	}

	const maxRetries = 3

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		url, err := s.generateAttempt(ctx, prompt, size)
		if err == nil {
			return url, nil
		}
		lastErr = err
		log.Printf("[ImageService] generation attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return "", fmt.Errorf("failed to generate image after %d attempts: %w", maxRetries, lastErr)
}

func (s *ImageService) generateAttempt(ctx context.Context, prompt, size string) (string, error) {
	reqBody := imageGenRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           size,
		Quality:        "standard",
		ResponseFormat: "url",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.genAPIURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.genAPIKey)

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

	var result imageGenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL in API response")
	}

	// The upstream URL is short-lived, so re-host; fall back to it if the
	// bucket write fails.
	mirrored, err := s.mirrorAttempt(ctx, result.Data[0].URL, "recipes")
	if err != nil {
		log.Printf("[ImageService] failed to re-host generated image, returning upstream URL: %v", err)
		return result.Data[0].URL, nil
	}
	return mirrored, nil
}
