package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// Content is one turn of a generateContent conversation. Each turn
	// carries exactly one text unit.
	Content struct {
		Role string
		Text string
	}

	// ContentGenerator is the outbound boundary to the generative model.
	ContentGenerator interface {
		GenerateContent(ctx context.Context, systemInstruction string, contents []Content) (string, error)
	}

	Client struct {
		apiKey  string
		model   string
		baseURL string
		http    *http.Client
	}
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type (
	apiPart struct {
		Text string `json:"text"`
	}

	apiContent struct {
		Role  string    `json:"role,omitempty"`
		Parts []apiPart `json:"parts"`
	}

	apiRequest struct {
		SystemInstruction *apiContent `json:"system_instruction,omitempty"`
		Contents          []apiContent `json:"contents"`
	}

	apiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
)

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, c.apiKey,
	)
}

// GenerateContent sends the conversation to the model and returns the first
// text part of the first candidate. The HTTP client timeout bounds the call.
func (c *Client) GenerateContent(ctx context.Context, systemInstruction string, contents []Content) (string, error) {
	reqBody := apiRequest{}
	if systemInstruction != "" {
		reqBody.SystemInstruction = &apiContent{
			Parts: []apiPart{{Text: systemInstruction}},
		}
	}
	for _, content := range contents {
		reqBody.Contents = append(reqBody.Contents, apiContent{
			Role:  content.Role,
			Parts: []apiPart{{Text: content.Text}},
		})
	}

	requestJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", err
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
