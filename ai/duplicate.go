package ai

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
)

// DuplicateResult is the model's verdict on whether two images show the
// exact same physical defect.
type DuplicateResult struct {
	IsDuplicate bool   `json:"isDuplicate"`
	Reason      string `json:"reason"`
}

const duplicatePrompt = `Compare these two images of civic issues.
Image 1 is a new report. Image 2 is an existing report.
Do they appear to be the EXACT same specific issue (e.g. the exact same pothole, same garbage pile) from the same or different angle?
Ignore generic similarities (like "both are potholes"). Look for specific visual identifiers.
Respond with only a JSON object with keys: isDuplicate (boolean), reason (string).`

// CheckDuplicate compares a candidate image against one existing image.
// Failures report "not a duplicate" so a broken model can never reject a
// legitimate new report.
func (c *Client) CheckDuplicate(ctx context.Context, candidateJPEG, existingJPEG []byte) DuplicateResult {
	text, err := c.generate(ctx,
		anthropic.NewTextBlock(duplicatePrompt),
		anthropic.NewImageBlockBase64("image/jpeg", base64.StdEncoding.EncodeToString(candidateJPEG)),
		anthropic.NewImageBlockBase64("image/jpeg", base64.StdEncoding.EncodeToString(existingJPEG)),
	)
	if err != nil {
		log.Println("Duplicate check failed:", err)
		return DuplicateResult{IsDuplicate: false, Reason: "Could not verify."}
	}

	var result DuplicateResult
	if err := parseModelJSON(text, &result); err != nil {
		log.Println("Duplicate check returned unusable JSON:", err)
		return DuplicateResult{IsDuplicate: false, Reason: "Could not verify."}
	}
	return result
}
