package domain

// TailoringRequest is the input for the script tailoring endpoint.
type TailoringRequest struct {
	OriginalTranscript string `json:"originalTranscript"`
	ProductDescription string `json:"productDescription"`
}

// Section is one psychological trigger section of the rewritten script.
type Section struct {
	SectionName             string   `json:"sectionName"`
	TriggerEmotionalState   string   `json:"triggerEmotionalState"`
	OriginalQuote           string   `json:"originalQuote"`
	RewrittenVersion        string   `json:"rewrittenVersion"`
	SceneDescription        string   `json:"sceneDescription"`
	PsychologicalPrinciples []string `json:"psychologicalPrinciples"`
	Timestamp               string   `json:"timestamp"`
}

// SutherlandAlchemy explains how reframing transforms perceived value.
type SutherlandAlchemy struct {
	Explanation    string           `json:"explanation"`
	ValueReframing []map[string]any `json:"valueReframing"`
	IdentityShifts []string         `json:"identityShifts"`
}

// HormoziValueStack breaks down why the offer feels like a steal.
type HormoziValueStack struct {
	CoreOffer         string           `json:"coreOffer"`
	ValueElements     []map[string]any `json:"valueElements"`
	TotalStack        map[string]any   `json:"totalStack"`
	GrandSlamElements []string         `json:"grandSlamElements"`
}

// ScriptPayload is the schema the LLM is instructed to return. Optional
// fields are pointers/nil slices so the caller can tell "absent" from
// "zero" and apply its own defaults.
type ScriptPayload struct {
	TailoredScript    string             `json:"tailoredScript"`
	Confidence        *float64           `json:"confidence"`
	ImprovementAreas  []string           `json:"improvementAreas"`
	SectionBreakdown  []Section          `json:"sectionBreakdown"`
	SutherlandAlchemy *SutherlandAlchemy `json:"sutherlandAlchemy"`
	HormoziValueStack *HormoziValueStack `json:"hormoziValueStack"`
}

// TailoringData is the fully populated result returned to callers. Every
// field is always set; failure paths carry sentinel values (confidence 0.0,
// empty collections) instead of omitting fields.
type TailoringData struct {
	TailoredScript    string            `json:"tailoredScript"`
	Confidence        float64           `json:"confidence"`
	ProcessingTime    float64           `json:"processingTime"`
	WordCount         int               `json:"wordCount"`
	EstimatedReadTime string            `json:"estimatedReadTime"`
	SectionBreakdown  []Section         `json:"sectionBreakdown"`
	SutherlandAlchemy SutherlandAlchemy `json:"sutherlandAlchemy"`
	HormoziValueStack HormoziValueStack `json:"hormoziValueStack"`
}

// TailoringResponse is the HTTP envelope for the tailoring endpoint.
type TailoringResponse struct {
	Success  bool           `json:"success"`
	Data     TailoringData  `json:"data"`
	Metadata map[string]any `json:"metadata"`
}
