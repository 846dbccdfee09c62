package gemini

import (
	"PlantDoc-Backend/domain"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error

	lastSystem   string
	lastContents []Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, systemInstruction string, contents []Content) (string, error) {
	f.lastSystem = systemInstruction
	f.lastContents = contents
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGetAdvisoryParsesCleanJSON(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"recommended_treatment": "Spray with neem oil.",
		"prevention_tips": ["Prune dense foliage.", "Avoid overhead watering."],
		"expected_recovery_time": "2-3 weeks with treatment"
	}`}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Tomato___Late_blight", "en")

	assert.Equal(t, "Spray with neem oil.", advisory.RecommendedTreatment)
	assert.Equal(t, []string{"Prune dense foliage.", "Avoid overhead watering."}, advisory.PreventionTips)
	assert.Equal(t, "2-3 weeks with treatment", advisory.ExpectedRecoveryTime)
	assert.Equal(t, "en", advisory.Language)
}

func TestGetAdvisoryStripsCodeFences(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"recommended_treatment\": \"Remove infected leaves.\", \"prevention_tips\": [\"Rotate crops.\"]}\n```"}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Potato___Early_blight", "en")

	assert.Equal(t, "Remove infected leaves.", advisory.RecommendedTreatment)
	assert.Equal(t, []string{"Rotate crops."}, advisory.PreventionTips)
}

func TestGetAdvisoryExtractsJSONFromCommentary(t *testing.T) {
	gen := &fakeGenerator{response: "Here is the answer:\n{\"recommended_treatment\": \"Apply fungicide.\", \"prevention_tips\": [\"Water at soil level.\"]}\nHope this helps!"}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Grape___Black_rot", "en")

	assert.Equal(t, "Apply fungicide.", advisory.RecommendedTreatment)
}

func TestGetAdvisoryMissingFieldsGetDefaults(t *testing.T) {
	gen := &fakeGenerator{response: `{"prevention_tips": null}`}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Apple___Apple_scab", "en")

	assert.Equal(t, "N/A", advisory.RecommendedTreatment)
	assert.Equal(t, []string{}, advisory.PreventionTips)
	assert.Equal(t, "Varies", advisory.ExpectedRecoveryTime)
}

func TestGetAdvisoryFallbackOnCallError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Tomato___Leaf_Mold", "es")

	assert.Equal(t, FallbackAdvisory("es"), advisory)
	assert.NotEmpty(t, advisory.RecommendedTreatment)
	assert.Len(t, advisory.PreventionTips, 1)
}

func TestGetAdvisoryFallbackOnUnparseableText(t *testing.T) {
	gen := &fakeGenerator{response: "Sorry, I cannot produce JSON today."}
	service := NewGeminiService(gen)

	advisory := service.GetAdvisory(context.Background(), "Peach___Bacterial_spot", "en")

	assert.Equal(t, FallbackAdvisory("en"), advisory)
}

func TestGetAdvisoryPassesLanguageThrough(t *testing.T) {
	gen := &fakeGenerator{response: `{"recommended_treatment": "x", "prevention_tips": []}`}
	service := NewGeminiService(gen)

	// Unsupported codes are forwarded verbatim, not validated.
	advisory := service.GetAdvisory(context.Background(), "Tomato___healthy", "xx")

	require.Len(t, gen.lastContents, 1)
	assert.Contains(t, gen.lastContents[0].Text, "generate the response in xx")
	assert.Equal(t, "xx", advisory.Language)
}

func TestChatForwardsHistoryInOrder(t *testing.T) {
	gen := &fakeGenerator{response: "  Water your tomato at soil level.  "}
	service := NewGeminiService(gen)

	history := []domain.ChatTurn{
		{Role: domain.ChatRoleUser, Text: "My tomato leaves have dark spots."},
		{Role: domain.ChatRoleModel, Text: "That could be early blight."},
	}

	reply := service.Chat(context.Background(), history, "What should I do?", "en")

	assert.Equal(t, "Water your tomato at soil level.", reply)
	require.Len(t, gen.lastContents, 3)
	assert.Equal(t, domain.ChatRoleUser, gen.lastContents[0].Role)
	assert.Equal(t, domain.ChatRoleModel, gen.lastContents[1].Role)
	assert.Equal(t, domain.ChatRoleUser, gen.lastContents[2].Role)
	assert.Equal(t, "What should I do?", gen.lastContents[2].Text)
}

func TestChatDirectiveRestrictsTopicsAndSetsLanguage(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	service := NewGeminiService(gen)

	service.Chat(context.Background(), nil, "Hello", "fr")

	assert.True(t, strings.Contains(gen.lastSystem, "politely decline"))
	assert.True(t, strings.Contains(gen.lastSystem, "plant"))
	assert.Contains(t, gen.lastSystem, "'fr'")
}

func TestChatApologyOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("deadline exceeded")}
	service := NewGeminiService(gen)

	reply := service.Chat(context.Background(), nil, "Why are my leaves yellow?", "en")

	assert.Equal(t, chatApology, reply)
}
