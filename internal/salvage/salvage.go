// Package salvage recovers structured payloads from malformed model output.
// Models asked to emit a single JSON object still wrap it in code fences,
// truncate mid-string when they hit the token limit, or drop closing braces.
// The engine repairs what it can and falls back to a fixed error payload
// when the response is beyond saving.
package salvage

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/util"
)

// Engine parses raw model output into a script payload.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Result carries the parsed payload and how it was obtained.
type Result struct {
	Payload domain.ScriptPayload

	// Recovered is true when the payload only parsed after repair.
	Recovered bool

	// Fallback is true when nothing could be salvaged and the fixed
	// error payload was returned instead.
	Fallback bool
}

// Salvage parses a raw model response. It never returns an error: the
// worst case is the fixed fallback payload with Fallback set.
func (e *Engine) Salvage(raw string) Result {
	e.logger.Info("Parsing AI response", zap.Int("length", len(raw)))

	e.logAnalysis(raw)

	clean := stripCodeFences(raw)

	var payload domain.ScriptPayload
	if err := json.Unmarshal([]byte(clean), &payload); err == nil {
		e.logger.Info("JSON parsing successful")
		return Result{Payload: payload}
	} else {
		e.logger.Error("JSON parsing failed", zap.Error(err))
		e.logger.Debug("response head", zap.String("content", head(clean, 500)))
		e.logger.Debug("response tail", zap.String("content", tail(clean, 100)))
	}

	if strings.Contains(clean, `"tailoredScript"`) {
		e.logger.Info("Attempting partial data recovery")

		fixed := e.repairCommonIssues(clean)
		if err := json.Unmarshal([]byte(fixed), &payload); err == nil {
			e.logger.Info("Successfully recovered partial JSON data")
			return Result{Payload: payload, Recovered: true}
		} else {
			e.logger.Error("Failed to fix JSON issues", zap.Error(err))
			e.logger.Debug("fixed response tail", zap.String("content", tail(fixed, 100)))
		}
	}

	return Result{Payload: fallbackPayload(), Fallback: true}
}

// stripCodeFences removes a surrounding markdown code block, with or
// without the json language tag.
func stripCodeFences(raw string) string {
	clean := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(clean, "```json"):
		clean = strings.TrimPrefix(clean, "```json")
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	default:
		return clean
	}

	clean = strings.TrimLeft(clean, " \t\r\n")
	clean = strings.TrimRight(clean, " \t\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimRight(clean, " \t\r\n")
}

// repairCommonIssues fixes the failure modes seen in truncated responses:
// an unterminated string value, then any unbalanced braces and brackets.
func (e *Engine) repairCommonIssues(response string) string {
	e.logger.Info("Attempting to fix JSON issues")

	response = e.repairUnterminatedString(response)

	if missing := strings.Count(response, "{") - strings.Count(response, "}"); missing > 0 {
		e.logger.Info("Adding missing closing braces", zap.Int("count", missing))
		response += strings.Repeat("}", missing)
	}

	if missing := strings.Count(response, "[") - strings.Count(response, "]"); missing > 0 {
		e.logger.Info("Adding missing closing brackets", zap.Int("count", missing))
		response += strings.Repeat("]", missing)
	}

	return response
}

// repairUnterminatedString scans the response tracking string state. If
// the scan ends inside a string the response was truncated mid-value:
// the string is cut back to the last sentence terminator when one exists,
// otherwise closed at the last structurally significant position.
func (e *Engine) repairUnterminatedString(response string) string {
	inString := false
	escaped := false
	lastValidPos := 0

	for i := 0; i < len(response); i++ {
		c := response[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
			if !inString {
				lastValidPos = i
			}
		case !inString && strings.IndexByte("{}[],:", c) >= 0:
			lastValidPos = i
		}
	}

	if !inString {
		return response
	}

	e.logger.Info("Detected unterminated string, attempting to close it")

	upToError := response[:lastValidPos+1]

	lastSentenceEnd := util.Max(
		util.Max(
			strings.LastIndexByte(upToError, '.'),
			strings.LastIndexByte(upToError, '!'),
		),
		strings.LastIndexByte(upToError, '?'),
	)

	if lastSentenceEnd > 0 {
		response = upToError[:lastSentenceEnd+1] + `"`
		e.logger.Info("Truncated string at sentence end", zap.Int("pos", lastSentenceEnd))
	} else {
		response = upToError + `"`
		e.logger.Info("Closed string at last valid position", zap.Int("pos", lastValidPos))
	}

	if !strings.HasSuffix(strings.TrimRight(response, " \t\r\n"), "}") {
		response = e.completeStructure(response)
	}

	return response
}

// completeStructure appends the mandatory trailing fields when a repaired
// response carries the script but lost everything after it. Responses
// that already parse, or that still carry a confidence value, are left
// alone.
func (e *Engine) completeStructure(response string) string {
	if json.Valid([]byte(response)) {
		return response
	}

	if strings.Contains(response, `"tailoredScript"`) && !strings.Contains(response, `"confidence"`) {
		response = strings.TrimRight(response, " \t\r\n")
		response = strings.TrimRight(response, ",") + ","
		response += syntheticTail
	}

	return response
}

const syntheticTail = `
  "confidence": 0.8,
  "improvementAreas": ["truncated_response"],
  "sectionBreakdown": [],
  "sutherlandAlchemy": {
    "explanation": "Response was truncated and recovered",
    "valueReframing": [],
    "identityShifts": []
  },
  "hormoziValueStack": {
    "coreOffer": "Analysis incomplete due to truncation",
    "valueElements": [],
    "totalStack": {},
    "grandSlamElements": []
  }
}`

// logAnalysis records structural counts of the raw response. A mismatched
// brace count or an odd quote count is the usual signature of truncation.
func (e *Engine) logAnalysis(response string) {
	quoteCount := strings.Count(response, `"`)
	quoteParity := "even"
	if quoteCount%2 != 0 {
		quoteParity = "odd - potential unterminated string"
	}

	trimmed := strings.TrimRight(response, " \t\r\n")
	endsValid := strings.HasSuffix(trimmed, "}") ||
		strings.HasSuffix(trimmed, "]") ||
		strings.HasSuffix(trimmed, `"`)

	e.logger.Debug("Response analysis",
		zap.Int("length", len(response)),
		zap.Int("open_braces", strings.Count(response, "{")),
		zap.Int("close_braces", strings.Count(response, "}")),
		zap.Int("open_brackets", strings.Count(response, "[")),
		zap.Int("close_brackets", strings.Count(response, "]")),
		zap.Int("quote_count", quoteCount),
		zap.String("quote_parity", quoteParity),
		zap.Bool("ends_with_valid_json", endsValid),
		zap.String("last_chars", tail(response, 50)),
	)

	for _, field := range []string{"tailoredScript", "confidence", "sectionBreakdown"} {
		if !strings.Contains(response, `"`+field+`"`) {
			e.logger.Debug("Missing required field", zap.String("field", field))
		}
	}
}

// fallbackPayload is returned when the response cannot be parsed at all.
func fallbackPayload() domain.ScriptPayload {
	confidence := 0.1
	return domain.ScriptPayload{
		TailoredScript:   "Error: Could not parse AI response. Please try again.",
		Confidence:       &confidence,
		ImprovementAreas: []string{"parsing_error"},
		SectionBreakdown: []domain.Section{},
		SutherlandAlchemy: &domain.SutherlandAlchemy{
			Explanation:    "Error in parsing response",
			ValueReframing: []map[string]any{},
			IdentityShifts: []string{},
		},
		HormoziValueStack: &domain.HormoziValueStack{
			CoreOffer:         "Error in analysis",
			ValueElements:     []map[string]any{},
			TotalStack:        map[string]any{},
			GrandSlamElements: []string{},
		},
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
