package classifier

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ethicheck/societal-debt/internal/logging"
	"ethicheck/societal-debt/internal/models"
)

// GeminiClient implements Client on top of the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	practices []models.Practice
	log       logging.Logger
}

// NewGeminiClient creates a Gemini-backed classifier client. The practice
// taxonomy is baked into every prompt so the model prefers known practice
// names.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, practices []models.Practice, log logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
		practices: practices,
		log:       log,
	}, nil
}

// Classify sends the whole pending batch to Gemini in a single request and
// returns the raw text plus any citation sources the model reported. The
// text is untrusted until it survives the parser.
func (c *GeminiClient) Classify(ctx context.Context, transactions []models.Transaction) (*RawResponse, error) {
	prompt, err := BuildPrompt(transactions, c.practices)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "classify"},
		logging.Field{Key: logging.FieldModel, Value: c.modelName},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Debug("Sending batch to Gemini")

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	candidate := resp.Candidates[0]

	var text string
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	return &RawResponse{
		Text:        text,
		Annotations: annotationsFromCitations(candidate),
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// annotationsFromCitations turns the candidate's citation sources into
// annotations with positional reference tokens ("[1]", "[2]", ...), matching
// the markers the model embeds in rationale text.
func annotationsFromCitations(candidate *genai.Candidate) []Annotation {
	if candidate.CitationMetadata == nil {
		return nil
	}

	var annotations []Annotation
	for i, source := range candidate.CitationMetadata.CitationSources {
		if source == nil || source.URI == nil || *source.URI == "" {
			continue
		}
		annotations = append(annotations, Annotation{
			Token: fmt.Sprintf("[%d]", i+1),
			URL:   *source.URI,
		})
	}
	return annotations
}
