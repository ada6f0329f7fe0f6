package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/pkg/config"
)

func newTestConfig() *config.OpenAIConfig {
	return &config.OpenAIConfig{
		APIKey:       "test-key",
		Model:        "gpt-4o-mini",
		RateLimitRPM: -1,
	}
}

func responsesBody(text string) string {
	envelope := map[string]interface{}{
		"output": []map[string]interface{}{
			{
				"content": []map[string]string{
					{"type": "output_text", "text": text},
				},
			},
		},
	}
	body, _ := json.Marshal(envelope)
	return string(body)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestExtractNeedsProfile_Success(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			gotModel, _ = payload["model"].(string)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responsesBody(`{
			"advice": "Go to the nearest trauma center.",
			"severity": 8,
			"needs": {"isTrauma": true, "recommendedTraumaLevel": 1, "needsCTScan": true}
		}`)))
	}))
	defer server.Close()

	client, err := NewClientWithOptions(newTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	assessment, err := client.ExtractNeedsProfile(context.Background(), providers.TriageInput{
		Symptoms: "severe head injury after a fall",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotModel)
	assert.Equal(t, "Go to the nearest trauma center.", assessment.Advice)
	assert.Equal(t, 8, assessment.Severity)
	require.NotNil(t, assessment.Profile)
	assert.True(t, assessment.Profile.IsTrauma)
	assert.True(t, assessment.Profile.NeedsCTScan)
	require.NotNil(t, assessment.Profile.RecommendedTraumaLevel)
	assert.Equal(t, 1, *assessment.Profile.RecommendedTraumaLevel)
}

func TestExtractNeedsProfile_FencedJSONOutput(t *testing.T) {
	fenced := "```json\n{\"advice\": \"Rest and hydrate.\", \"severity\": 2, \"needs\": {\"needsUltrasound\": true}}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responsesBody(fenced)))
	}))
	defer server.Close()

	client, err := NewClientWithOptions(newTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	assessment, err := client.ExtractNeedsProfile(context.Background(), providers.TriageInput{Symptoms: "mild abdominal pain"})
	require.NoError(t, err)
	assert.Equal(t, 2, assessment.Severity)
	assert.True(t, assessment.Profile.NeedsUltrasound)
}

func TestExtractNeedsProfile_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClientWithOptions(newTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.ExtractNeedsProfile(context.Background(), providers.TriageInput{Symptoms: "chest pain"})
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrTriageUnauthorized)
}

func TestExtractNeedsProfile_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClientWithOptions(newTestConfig(), server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.ExtractNeedsProfile(context.Background(), providers.TriageInput{Symptoms: "chest pain"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrTriageUnauthorized)
}

func TestExtractNeedsProfile_EmptyInputRejected(t *testing.T) {
	client, err := NewClient(newTestConfig())
	require.NoError(t, err)

	_, err = client.ExtractNeedsProfile(context.Background(), providers.TriageInput{Symptoms: "   "})
	assert.Error(t, err)
}

func TestParseTriageAssessment_SeverityClamped(t *testing.T) {
	assessment, err := parseTriageAssessment(`{"advice": "ok", "severity": 42, "needs": {}}`)
	require.NoError(t, err)
	assert.Equal(t, 10, assessment.Severity)

	assessment, err = parseTriageAssessment(`{"advice": "ok", "severity": -1, "needs": {}}`)
	require.NoError(t, err)
	assert.Equal(t, 1, assessment.Severity)
}

func TestParseTriageAssessment_TopLevelNeedsFallback(t *testing.T) {
	assessment, err := parseTriageAssessment(`{"advice": "ok", "severity": 3, "isTrauma": true, "needsMRI": true}`)
	require.NoError(t, err)
	assert.True(t, assessment.Profile.IsTrauma)
	assert.True(t, assessment.Profile.NeedsMRI)
}

func TestParseTriageAssessment_InvalidJSON(t *testing.T) {
	_, err := parseTriageAssessment(`the patient should`)
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
