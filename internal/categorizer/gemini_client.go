package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient implements AIClient with the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient connects to Gemini with apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logging.OrDiscard(logger),
	}, nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// SuggestTag asks the model for a tag and category.
func (c *GeminiClient) SuggestTag(ctx context.Context, tx models.Transaction) (models.Tag, models.Category, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(tx)))
	if err != nil {
		return models.TagNone, models.CategoryNone, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.TagNone, models.CategoryNone, fmt.Errorf("no response from Gemini API")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	tag, category := parseResponse(text.String())
	c.logger.Debug("Gemini suggestion received",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldTag, Value: tag},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return tag, category, nil
}

func buildPrompt(tx models.Transaction) string {
	categories := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = string(c)
	}
	return fmt.Sprintf(`Classify the following bank transaction.
Merchant: %s
Description: %s
Amount: %s %s

Tag must be one of: reimbursable, personal, ignore.
Category must be one of: %s.

Respond in this format:
Tag: [tag]
Category: [category]`,
		tx.Merchant, tx.Description, tx.Amount.StringFixed(2), tx.Currency,
		strings.Join(categories, ", "))
}

// parseResponse reads "Tag:" and "Category:" lines; unknown values are dropped.
func parseResponse(response string) (models.Tag, models.Category) {
	var (
		tag      models.Tag
		category models.Category
	)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "tag:"):
			if t, err := models.ParseTag(answerValue(line[len("tag:"):])); err == nil {
				tag = t
			}
		case strings.HasPrefix(lower, "category:"):
			if c, err := models.ParseCategory(answerValue(line[len("category:"):])); err == nil {
				category = c
			}
		}
	}
	return tag, category
}

// answerValue strips the brackets and quotes a model may echo from the prompt.
func answerValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]\"'`"))
}
