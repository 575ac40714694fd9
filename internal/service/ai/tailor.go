package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/prompt"
	"github.com/myrefera/script-tailor-go/internal/salvage"
)

// TailoringService turns a transcript plus product description into a
// marketing-psychology-optimized script.
type TailoringService struct {
	completer Completer
	engine    *salvage.Engine
	logger    *zap.Logger
}

func NewTailoringService(completer Completer, engine *salvage.Engine, logger *zap.Logger) *TailoringService {
	return &TailoringService{
		completer: completer,
		engine:    engine,
		logger:    logger,
	}
}

// ResultMeta describes how a tailoring result was produced.
type ResultMeta struct {
	ModelUsed    string
	Provider     string
	UsedFallback bool
	Recovered    bool
	ParseFailed  bool
}

// GenerateTailoredScript produces a tailored script for the request. It
// never returns an error: generation failures come back as a fully
// populated error-shaped result so the HTTP response keeps its contract.
func (s *TailoringService) GenerateTailoredScript(ctx context.Context, req domain.TailoringRequest) (domain.TailoringData, ResultMeta) {
	start := time.Now()

	systemPrompt := prompt.SystemPrompt()
	userPrompt := prompt.BuildTailorPrompt(req)

	raw, completion, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.logger.Error("Script generation failed", zap.Error(err))
		return errorData(err, time.Since(start)), ResultMeta{
			ModelUsed: s.completer.PrimaryModel(),
		}
	}

	result := s.engine.Salvage(raw)
	data := assemble(result.Payload, time.Since(start))

	s.logger.Info("Script tailoring completed",
		zap.Int("word_count", data.WordCount),
		zap.Float64("confidence", data.Confidence),
		zap.Float64("processing_time", data.ProcessingTime),
		zap.Int("sections", len(data.SectionBreakdown)),
		zap.Bool("recovered", result.Recovered),
		zap.Bool("parse_fallback", result.Fallback),
	)

	return data, ResultMeta{
		ModelUsed:    completion.Model,
		Provider:     completion.Provider,
		UsedFallback: completion.UsedFallback,
		Recovered:    result.Recovered,
		ParseFailed:  result.Fallback,
	}
}

// errorData is the fixed error-shaped result for generation failures.
func errorData(err error, elapsed time.Duration) domain.TailoringData {
	return domain.TailoringData{
		TailoredScript:    fmt.Sprintf("Error generating script: %v", err),
		Confidence:        0.0,
		ProcessingTime:    elapsed.Seconds(),
		WordCount:         0,
		EstimatedReadTime: "0s",
		SectionBreakdown:  []domain.Section{},
		SutherlandAlchemy: domain.SutherlandAlchemy{
			Explanation:    "Error occurred during processing",
			ValueReframing: []map[string]any{},
			IdentityShifts: []string{},
		},
		HormoziValueStack: domain.HormoziValueStack{
			CoreOffer:         "Error in analysis",
			ValueElements:     []map[string]any{},
			TotalStack:        map[string]any{},
			GrandSlamElements: []string{},
		},
	}
}
