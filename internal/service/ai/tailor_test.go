package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/salvage"
	"github.com/myrefera/script-tailor-go/pkg/errors"
)

type fakeCompleter struct {
	response  string
	metadata  *CompletionMetadata
	err       error
	gotSystem string
	gotUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, *CompletionMetadata, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.response, f.metadata, f.err
}

func (f *fakeCompleter) PrimaryModel() string {
	return "gpt-4.1-mini"
}

func newTestService(c Completer) *TailoringService {
	logger := zap.NewNop()
	return NewTailoringService(c, salvage.NewEngine(logger), logger)
}

func TestGenerateTailoredScriptSuccess(t *testing.T) {
	completer := &fakeCompleter{
		response: `{
			"tailoredScript": "Buy this. You need it.",
			"confidence": 0.91,
			"improvementAreas": [],
			"sectionBreakdown": [],
			"sutherlandAlchemy": {"explanation": "x", "valueReframing": [], "identityShifts": []},
			"hormoziValueStack": {"coreOffer": "y", "valueElements": [], "totalStack": {}, "grandSlamElements": []}
		}`,
		metadata: &CompletionMetadata{Provider: "OpenAI", Model: "gpt-4.1-mini"},
	}
	svc := newTestService(completer)

	req := domain.TailoringRequest{
		OriginalTranscript: "original words here",
		ProductDescription: "a phone case",
	}
	data, meta := svc.GenerateTailoredScript(context.Background(), req)

	if data.TailoredScript != "Buy this. You need it." {
		t.Errorf("script = %q", data.TailoredScript)
	}
	if data.Confidence != 0.91 {
		t.Errorf("confidence = %v", data.Confidence)
	}
	if data.WordCount != 5 {
		t.Errorf("word count = %d, want 5", data.WordCount)
	}
	if data.ProcessingTime < 0 {
		t.Errorf("processing time = %v", data.ProcessingTime)
	}
	if meta.ModelUsed != "gpt-4.1-mini" || meta.Provider != "OpenAI" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Recovered || meta.ParseFailed {
		t.Errorf("clean parse expected, meta = %+v", meta)
	}

	if !strings.Contains(completer.gotUser, "original words here") {
		t.Error("user prompt must carry the transcript")
	}
	if !strings.Contains(completer.gotUser, "Product: a phone case") {
		t.Error("user prompt must carry the product description")
	}
	if !strings.Contains(completer.gotSystem, "marketing psychologist") {
		t.Error("system prompt must be the marketing psychology prompt")
	}
}

func TestGenerateTailoredScriptCompletionError(t *testing.T) {
	completer := &fakeCompleter{
		err: errors.NewTimeoutError("API call", 60*time.Second),
	}
	svc := newTestService(completer)

	data, meta := svc.GenerateTailoredScript(context.Background(), domain.TailoringRequest{
		OriginalTranscript: "words",
		ProductDescription: "product",
	})

	if !strings.HasPrefix(data.TailoredScript, "Error generating script:") {
		t.Errorf("script = %q", data.TailoredScript)
	}
	if !strings.Contains(data.TailoredScript, "timed out after 60 seconds") {
		t.Errorf("script should carry the timeout message, got %q", data.TailoredScript)
	}
	if data.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", data.Confidence)
	}
	if data.WordCount != 0 || data.EstimatedReadTime != "0s" {
		t.Errorf("word count = %d, read time = %q", data.WordCount, data.EstimatedReadTime)
	}
	if data.SutherlandAlchemy.Explanation != "Error occurred during processing" {
		t.Errorf("explanation = %q", data.SutherlandAlchemy.Explanation)
	}
	if data.HormoziValueStack.CoreOffer != "Error in analysis" {
		t.Errorf("core offer = %q", data.HormoziValueStack.CoreOffer)
	}
	if meta.ModelUsed != "gpt-4.1-mini" {
		t.Errorf("model used = %q", meta.ModelUsed)
	}
}

func TestGenerateTailoredScriptUnparseableResponse(t *testing.T) {
	completer := &fakeCompleter{
		response: "Sure! Here is your script: buy the thing.",
		metadata: &CompletionMetadata{Provider: "OpenAI", Model: "gpt-4.1-mini"},
	}
	svc := newTestService(completer)

	data, meta := svc.GenerateTailoredScript(context.Background(), domain.TailoringRequest{})

	if !meta.ParseFailed {
		t.Fatal("expected parse fallback")
	}
	if data.TailoredScript != "Error: Could not parse AI response. Please try again." {
		t.Errorf("script = %q", data.TailoredScript)
	}
	if data.Confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", data.Confidence)
	}
}
