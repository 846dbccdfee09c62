package gemini

import (
	"PlantDoc-Backend/domain"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

const chatSystemDirective = `You are "PlantDoc Assistant", an AI specialized in plant health, diseases, and treatments.
Your purpose is strictly limited to assisting users of the Plant Disease Detection platform.

YOUR SCOPE:
1. Discussing plant diseases (symptoms, causes).
2. Providing treatment advice (organic and chemical).
3. Offering prevention tips and general plant care advice (watering, soil, light).
4. Answering questions about the Plant Disease Detection platform itself (e.g., "How do I upload a photo?", "Where can I see my history?").
5. The user may ask for responses in a supported language. Supported codes: 'en' (English), 'hi' (Hindi), 'es' (Spanish), 'fr' (French).

GUARDRAILS (IMPORTANT):
- If a user asks a question outside of the SCOPE defined above (e.g., math, history, politics, general knowledge, jokes), you MUST politely decline and state that you can only assist with plant health and platform-related inquiries.
- Do NOT answer questions unrelated to plants or the platform.

TONE:
- Professional, helpful, and encouraging.`

const (
	fallbackTreatment = "Could not retrieve treatment information at this time. Please consult a local gardening expert."
	fallbackTip       = "Ensure your plant has adequate light, water, and nutrients to build its natural defenses."
	fallbackRecovery  = "Varies"

	chatApology = "I'm sorry, I encountered an error. Please try asking again later."
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type (
	GeminiService interface {
		GetAdvisory(ctx context.Context, diseaseName string, language string) domain.Advisory
		Chat(ctx context.Context, history []domain.ChatTurn, message string, language string) string
	}

	geminiService struct {
		client ContentGenerator
	}

	advisoryPayload struct {
		RecommendedTreatment string   `json:"recommended_treatment"`
		PreventionTips       []string `json:"prevention_tips"`
		ExpectedRecoveryTime string   `json:"expected_recovery_time"`
	}
)

func NewGeminiService(client ContentGenerator) GeminiService {
	return &geminiService{client: client}
}

// FallbackAdvisory is the fixed content substituted whenever the external
// model call fails or returns something unparseable.
func FallbackAdvisory(language string) domain.Advisory {
	return domain.Advisory{
		RecommendedTreatment: fallbackTreatment,
		PreventionTips:       []string{fallbackTip},
		ExpectedRecoveryTime: fallbackRecovery,
		Language:             language,
	}
}

func advisoryPrompt(diseaseName, language string) string {
	return fmt.Sprintf(`You are an expert botanist and plant pathologist named PlantDoc.
A plant has been diagnosed with: "%s".

Provide a concise response in JSON format with exactly these keys:
1. "recommended_treatment": A paragraph describing practical, actionable treatment steps. Mention common solutions like neem oil, baking soda, or specific fungicides if applicable.
2. "prevention_tips": A list of 3-4 bullet points on how to prevent this disease in the future.
3. "expected_recovery_time": A short estimate such as "2-3 weeks with treatment".

Respond with a single JSON object and nothing else. No markdown fences, no commentary.

Supported language codes: 'en' (English), 'hi' (Hindi), 'es' (Spanish), 'fr' (French).
You have to generate the response in %s.`, diseaseName, language)
}

// GetAdvisory asks the model for treatment guidance and coerces the reply
// into a strict shape. It never fails: any error on the way out or back in
// yields the fixed fallback Advisory.
func (s *geminiService) GetAdvisory(ctx context.Context, diseaseName string, language string) domain.Advisory {
	if language == "" {
		language = "en"
	}

	raw, err := s.client.GenerateContent(ctx, "", []Content{
		{Role: domain.ChatRoleUser, Text: advisoryPrompt(diseaseName, language)},
	})
	if err != nil {
		log.Printf("error calling Gemini API for treatment info: %v", err)
		return FallbackAdvisory(language)
	}

	payload, err := parseAdvisory(raw)
	if err != nil {
		log.Printf("error parsing Gemini treatment response: %v", err)
		return FallbackAdvisory(language)
	}

	return domain.Advisory{
		RecommendedTreatment: payload.RecommendedTreatment,
		PreventionTips:       payload.PreventionTips,
		ExpectedRecoveryTime: payload.ExpectedRecoveryTime,
		Language:             language,
	}
}

// parseAdvisory strips code-fence markup, extracts the JSON object and applies
// documented defaults for missing fields instead of failing the whole call.
func parseAdvisory(raw string) (advisoryPayload, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if match := jsonObjectPattern.FindString(cleaned); match != "" {
		cleaned = match
	}

	var payload advisoryPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return advisoryPayload{}, err
	}

	if payload.RecommendedTreatment == "" {
		payload.RecommendedTreatment = "N/A"
	}
	if payload.PreventionTips == nil {
		payload.PreventionTips = []string{}
	}
	if payload.ExpectedRecoveryTime == "" {
		payload.ExpectedRecoveryTime = fallbackRecovery
	}

	return payload, nil
}

// Chat forwards the caller-supplied history plus the new message under the
// fixed system directive. The full history travels on every call; no session
// state is held between calls. Any failure yields the fixed apology string.
func (s *geminiService) Chat(ctx context.Context, history []domain.ChatTurn, message string, language string) string {
	if language == "" {
		language = "en"
	}

	directive := chatSystemDirective + fmt.Sprintf(
		"\n\nWhen the language code '%s' is recognized, answer in that language.", language)

	contents := make([]Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, Content{Role: turn.Role, Text: turn.Text})
	}
	contents = append(contents, Content{Role: domain.ChatRoleUser, Text: message})

	reply, err := s.client.GenerateContent(ctx, directive, contents)
	if err != nil {
		log.Printf("error during Gemini chat processing: %v", err)
		return chatApology
	}

	return strings.TrimSpace(reply)
}
