package ai

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"myvoice-be/models"
)

// Classification is the structured verdict for a newly captured report.
type Classification struct {
	IsCivicIssue    bool                 `json:"isCivicIssue"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	Category        string               `json:"category"`
	Department      string               `json:"department"`
	Priority        models.IssuePriority `json:"priority"`
	Summary         string               `json:"summary"`
}

const classifyPrompt = `Analyze this image for a civic issue reporting app.
1. VALIDATION: Determine if this is a valid civic issue (pothole, garbage, broken street light, water leakage, fallen tree, illegal parking, broken infrastructure).
   - If it is a selfie, a person, a pet, a blurry unusable photo, or an indoor private object, set "isCivicIssue" to false and give a short "rejectionReason".
2. CATEGORIZATION: If valid, strictly categorize into one of: 'Roads & Safety', 'Garbage & Sanitation', 'Water Supply', 'Electricity', 'Public Transport', 'Traffic', 'Parks & Trees', 'Other'.
3. PRIORITY: Assess urgency based on hazard level (HIGH for immediate danger, MEDIUM for inconvenience, LOW for cosmetic). One of: LOW, MEDIUM, HIGH.
4. DEPARTMENT: Assign to 'Public Works', 'Municipal Corp', 'Traffic Police', 'Water Board', or 'Electric Board'.
Respond with only a JSON object with keys: isCivicIssue (boolean), rejectionReason (string), category (string), department (string), priority (string), summary (a concise title for the issue, max 5 words).`

// AnalyzeIssue asks the model to validate and classify a captured image with
// optional user description context. It never returns an error: any failure
// (transport, empty reply, malformed JSON, out-of-set values) yields the
// deterministic fallback so a human moderator can recategorize later.
func (c *Client) AnalyzeIssue(ctx context.Context, imageJPEG []byte, description string) Classification {
	prompt := classifyPrompt
	if description != "" {
		prompt += "\nUser description context: " + description
	}

	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)}
	if len(imageJPEG) > 0 {
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/jpeg",
			base64.StdEncoding.EncodeToString(imageJPEG)))
	}

	text, err := c.generate(ctx, blocks...)
	if err != nil {
		log.Println("Issue analysis failed:", err)
		return fallbackClassification(description)
	}

	var result Classification
	if err := parseModelJSON(text, &result); err != nil {
		log.Println("Issue analysis returned unusable JSON:", err)
		return fallbackClassification(description)
	}

	if !result.IsCivicIssue {
		if result.RejectionReason == "" {
			result.RejectionReason = "Image does not look like a civic issue."
		}
		return result
	}

	// The model response is an untrusted boundary: anything outside the
	// closed sets falls back rather than flowing into the store.
	if !models.ValidCategory(result.Category) ||
		!models.ValidDepartment(result.Department) ||
		!models.ValidPriority(result.Priority) ||
		result.Summary == "" {
		log.Printf("Issue analysis outside allowed sets (category=%q department=%q priority=%q), using fallback",
			result.Category, result.Department, result.Priority)
		return fallbackClassification(description)
	}

	return result
}

// fallbackClassification marks the report valid and routes it to general
// administration, keeping the human-in-the-loop path open.
func fallbackClassification(description string) Classification {
	summary := description
	if summary == "" {
		summary = "Issue reported"
	}
	return Classification{
		IsCivicIssue: true,
		Category:     models.FallbackCategory,
		Department:   models.FallbackDepartment,
		Priority:     models.PriorityMedium,
		Summary:      summary,
	}
}
