package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/internal/domain"
)

// assemble fills in the derived fields (word count, read time, processing
// time) and normalizes absent payload fields to their defaults so the wire
// response always carries every key with JSON-friendly empty collections.
func assemble(payload domain.ScriptPayload, elapsed time.Duration) domain.TailoringData {
	wordCount := len(strings.Fields(payload.TailoredScript))

	confidence := 0.8
	if payload.Confidence != nil {
		confidence = *payload.Confidence
	}

	sections := payload.SectionBreakdown
	if sections == nil {
		sections = []domain.Section{}
	}
	for i := range sections {
		if sections[i].PsychologicalPrinciples == nil {
			sections[i].PsychologicalPrinciples = []string{}
		}
	}

	return domain.TailoringData{
		TailoredScript:    payload.TailoredScript,
		Confidence:        confidence,
		ProcessingTime:    elapsed.Seconds(),
		WordCount:         wordCount,
		EstimatedReadTime: estimateReadTime(wordCount),
		SectionBreakdown:  sections,
		SutherlandAlchemy: normalizeAlchemy(payload.SutherlandAlchemy),
		HormoziValueStack: normalizeValueStack(payload.HormoziValueStack),
	}
}

// estimateReadTime formats the read time at 150 words per minute: seconds
// under a minute, otherwise minutes to one decimal place.
func estimateReadTime(wordCount int) string {
	minutes := float64(wordCount) / float64(constants.ReadTimeConfig.WordsPerMinute)
	if minutes < 1 {
		return fmt.Sprintf("%ds", int(minutes*60))
	}
	return fmt.Sprintf("%.1fm", minutes)
}

func normalizeAlchemy(a *domain.SutherlandAlchemy) domain.SutherlandAlchemy {
	out := domain.SutherlandAlchemy{
		ValueReframing: []map[string]any{},
		IdentityShifts: []string{},
	}
	if a == nil {
		return out
	}

	out.Explanation = a.Explanation
	if a.ValueReframing != nil {
		out.ValueReframing = a.ValueReframing
	}
	if a.IdentityShifts != nil {
		out.IdentityShifts = a.IdentityShifts
	}
	return out
}

func normalizeValueStack(v *domain.HormoziValueStack) domain.HormoziValueStack {
	out := domain.HormoziValueStack{
		ValueElements:     []map[string]any{},
		TotalStack:        map[string]any{},
		GrandSlamElements: []string{},
	}
	if v == nil {
		return out
	}

	out.CoreOffer = v.CoreOffer
	if v.ValueElements != nil {
		out.ValueElements = v.ValueElements
	}
	if v.TotalStack != nil {
		out.TotalStack = v.TotalStack
	}
	if v.GrandSlamElements != nil {
		out.GrandSlamElements = v.GrandSlamElements
	}
	return out
}
