package domain

// TranscriptionStatus discriminates the outcome variants.
type TranscriptionStatus string

const (
	TranscriptionSuccess    TranscriptionStatus = "success"
	TranscriptionProcessing TranscriptionStatus = "processing"
	TranscriptionFailed     TranscriptionStatus = "error"
)

// Transcription error codes surfaced in the wire contract.
const (
	ErrCodePlatformNotSupported = "PLATFORM_NOT_SUPPORTED"
	ErrCodeTranscriptionError   = "TRANSCRIPTION_ERROR"
	ErrCodeTranscriptionFailed  = "TRANSCRIPTION_FAILED"
	ErrCodeUnexpectedError      = "UNEXPECTED_ERROR"
	ErrCodeUnknownError         = "UNKNOWN_ERROR"
)

// TranscriptionError is the error payload attached to failed outcomes.
type TranscriptionError struct {
	Code                   string `json:"code"`
	Message                string `json:"message"`
	Details                string `json:"details"`
	PlatformRecommendation string `json:"platform_recommendation,omitempty"`
}

// TranscriptionOutcome is a tagged variant: exactly one of the Success
// (language+transcript), Queued (job_id) or Error groups is populated,
// discriminated by Status. Use the constructors below.
type TranscriptionOutcome struct {
	URL        string              `json:"url"`
	Platform   string              `json:"platform"`
	Status     TranscriptionStatus `json:"status"`
	Language   string              `json:"language,omitempty"`
	Transcript string              `json:"transcript,omitempty"`
	JobID      string              `json:"job_id,omitempty"`
	Error      *TranscriptionError `json:"error,omitempty"`
}

// NewSuccessOutcome builds an outcome with inline transcript content.
func NewSuccessOutcome(url, platform, language, transcript string) *TranscriptionOutcome {
	return &TranscriptionOutcome{
		URL:        url,
		Platform:   platform,
		Status:     TranscriptionSuccess,
		Language:   language,
		Transcript: transcript,
	}
}

// NewQueuedOutcome builds an outcome for asynchronous provider processing.
func NewQueuedOutcome(url, platform, jobID string) *TranscriptionOutcome {
	return &TranscriptionOutcome{
		URL:      url,
		Platform: platform,
		Status:   TranscriptionProcessing,
		JobID:    jobID,
	}
}

// NewErrorOutcome builds a failed outcome carrying a typed error payload.
func NewErrorOutcome(url, platform string, errDetail TranscriptionError) *TranscriptionOutcome {
	return &TranscriptionOutcome{
		URL:      url,
		Platform: platform,
		Status:   TranscriptionFailed,
		Error:    &errDetail,
	}
}

// Resolved reports whether the outcome should be cached (the provider
// produced content or accepted the job; errors are always retried fresh).
func (o *TranscriptionOutcome) Resolved() bool {
	return o.Status == TranscriptionSuccess || o.Status == TranscriptionProcessing
}

// TranscribeRequest is the batch transcription request body.
type TranscribeRequest struct {
	URLs []string `json:"urls"`
	Lang string   `json:"lang"`
	Text *bool    `json:"text"`
	Mode string   `json:"mode"`
}

// TranscribeSummary counts batch results by disposition.
type TranscribeSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// TranscribeResponse is the batch transcription response body. Results are
// ordered exactly like the request URLs.
type TranscribeResponse struct {
	Results []*TranscriptionOutcome `json:"results"`
	Summary TranscribeSummary       `json:"summary"`
}
