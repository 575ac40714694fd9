package prompt

import (
	"fmt"

	"github.com/myrefera/script-tailor-go/internal/domain"
)

// BuildTailorPrompt renders the user prompt carrying the transcript and
// the product the script should be rewritten for.
func BuildTailorPrompt(req domain.TailoringRequest) string {
	return fmt.Sprintf(`
Transcript:
%s

Product: %s

Please analyze this transcript and rewrite it for the product above, following all the psychological principles and structure requirements outlined in the system prompt.
`, req.OriginalTranscript, req.ProductDescription)
}
