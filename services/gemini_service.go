package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rishikeshvarma/NutriVision/models"
)

// GeminiService talks to the generative API for the two AI flows: producing a
// structured daily diet plan from a profile, and recognizing food items on a
// photo. Calls are one-shot with no retry; a failure is surfaced to the
// caller and nothing is re-attempted.
type GeminiService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiService() *GeminiService {
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiService) prompt(ctx context.Context, parts []geminiPart) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("GEMINI_API_KEY not set")
	}

	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s?key=%s", g.baseURL, g.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		preview := string(respBytes)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, preview)
	}

	var out geminiResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("decode gemini response error: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes a surrounding markdown code block, which the model
// sometimes adds despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// GenerateDietPlan asks for a personalized daily plan and returns the raw
// structured JSON content. Empty dietary restrictions are substituted with
// "None"; an empty location is omitted from the prompt entirely.
func (g *GeminiService) GenerateDietPlan(ctx context.Context, profile models.UserProfile) (string, error) {
	restrictions := profile.DietaryRestrictions
	if restrictions == "" {
		restrictions = "None"
	}

	var sb strings.Builder
	sb.WriteString("You are an expert nutritionist creating a personalized daily diet plan.\n\n")
	sb.WriteString("User Details:\n")
	fmt.Fprintf(&sb, "- Age: %d\n", profile.Age)
	fmt.Fprintf(&sb, "- Weight: %g kg\n", profile.Weight)
	fmt.Fprintf(&sb, "- Height: %g cm\n", profile.Height)
	fmt.Fprintf(&sb, "- Activity Level: %s\n", profile.ActivityLevel)
	fmt.Fprintf(&sb, "- Primary Goal: %s\n", profile.Goals)
	fmt.Fprintf(&sb, "- Dietary Restrictions/Preferences: %s\n", restrictions)
	if profile.Location != "" {
		fmt.Fprintf(&sb, "- User Location: %s\n", profile.Location)
	}
	sb.WriteString(`
Task:
Generate a detailed, creative, and delicious daily diet plan.
The output MUST be a single valid JSON object with this shape:
{"title": string, "intro": string, "meals": [{"title": string, "description": string, "ingredients": [string], "preparation": [string], "nutrition": {"calories": number, "protein": number, "carbohydrates": number, "fats": number}}], "totals": {"description": string, "nutrition": {"calories": number, "protein": number, "carbohydrates": number, "fats": number}}}

IMPORTANT: For all nutrition fields provide only the numerical value. Do NOT include units like "kcal" or "g".
Ensure the total daily calories and macronutrients align with the user's goal.
Do not wrap the output in markdown code blocks.
`)

	raw, err := g.prompt(ctx, []geminiPart{{Text: sb.String()}})
	if err != nil {
		return "", err
	}

	content := stripCodeFences(raw)
	if _, ok := parseStructuredPlan(content); !ok {
		return "", errors.New("generated plan did not match the expected shape")
	}
	return content, nil
}

// decodeDataURI splits a "data:<mime>;base64,<payload>" string.
func decodeDataURI(uri string) (mime, data string, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", errors.New("invalid data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", "", errors.New("data URI must be base64 encoded")
	}
	return rest[:sep], rest[sep+len(";base64,"):], nil
}

// RecognizeFood identifies the food items on a photo, with per-single-unit
// nutrition estimates. Identical items are grouped into one entry with a
// quantity.
func (g *GeminiService) RecognizeFood(ctx context.Context, photoDataURI string) ([]models.RecognizedFood, error) {
	mime, data, err := decodeDataURI(photoDataURI)
	if err != nil {
		return nil, err
	}

	instructions := `You are an AI food recognition expert. Analyze the photo to identify all food items.

Key Instructions:
- Group identical items into a single entry with a quantity.
- For each item, estimate calories, protein, carbohydrates and fat for a SINGLE unit.
- Provide only numerical values for nutrition fields, no units.

Respond with a single valid JSON object of this shape, without markdown code blocks:
{"foodItems": [{"name": string, "quantity": number, "calories": number, "protein": number, "carbohydrates": number, "fat": number}]}`

	raw, err := g.prompt(ctx, []geminiPart{
		{Text: instructions},
		{InlineData: &geminiInlineData{MimeType: mime, Data: data}},
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		FoodItems []models.RecognizedFood `json:"foodItems"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("decode food recognition response error: %w", err)
	}
	if out.FoodItems == nil {
		return nil, errors.New("food recognition response missing foodItems")
	}
	return out.FoodItems, nil
}
