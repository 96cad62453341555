// Package pipeline orchestrates the issue submission flow: capture feeds an
// image in, location resolution and AI classification run concurrently and
// join into a draft, and a confirmed draft lands in the issue store.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"myvoice-be/ai"
	"myvoice-be/capture"
	"myvoice-be/models"
	"myvoice-be/store"
)

// Classifier validates and categorizes a captured image.
type Classifier interface {
	AnalyzeIssue(ctx context.Context, imageJPEG []byte, description string) ai.Classification
}

// Locator resolves the device location. Never fails.
type Locator interface {
	Resolve(ctx context.Context) models.Location
}

// State of a report in flight.
type State string

const (
	StateCapturing  State = "capturing"
	StateAnalyzing  State = "analyzing"
	StateReady      State = "ready"
	StateRejected   State = "rejected"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
)

// Report is a short-lived submission task. Transitions:
//
//	capturing -> analyzing -> ready -> submitting -> done
//	                       -> rejected -> capturing (retake)
//
// Out-of-order calls fail rather than silently reordering the flow.
type Report struct {
	mu sync.Mutex

	classifier Classifier
	locator    Locator
	issues     *store.IssueStore
	user       models.User

	state          State
	image          []byte
	description    string
	audio          *capture.Clip
	location       models.Location
	classification ai.Classification
}

// NewReport starts a submission for the given user.
func NewReport(classifier Classifier, locator Locator, issues *store.IssueStore, user models.User) *Report {
	return &Report{
		classifier: classifier,
		locator:    locator,
		issues:     issues,
		user:       user,
		state:      StateCapturing,
	}
}

// State returns the current pipeline state.
func (r *Report) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetDescription attaches the optional free-text description. It feeds the
// classifier when analysis runs after it, and the issue either way.
func (r *Report) SetDescription(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.description = text
}

// AttachAudio attaches an optional recorded audio note to the draft.
func (r *Report) AttachAudio(clip *capture.Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audio = clip
}

// ClearAudio detaches the audio note.
func (r *Report) ClearAudio() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audio = nil
}

// Audio returns the attached audio note, if any.
func (r *Report) Audio() *capture.Clip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.audio
}

// AttachImage accepts the captured image and runs analysis: location
// resolution and classification are issued together and joined before the
// draft is finalized. A slow classifier does not stop a fast location fix
// from being used once both land. On a negative validation the report moves
// to rejected; the only way forward is Retake.
func (r *Report) AttachImage(ctx context.Context, imageJPEG []byte) error {
	r.mu.Lock()
	if r.state != StateCapturing {
		state := r.state
		r.mu.Unlock()
		return fmt.Errorf("cannot attach image in state %q", state)
	}
	r.state = StateAnalyzing
	r.image = imageJPEG
	description := r.description
	r.mu.Unlock()

	var (
		location       models.Location
		classification ai.Classification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		location = r.locator.Resolve(gctx)
		return nil
	})
	g.Go(func() error {
		classification = r.classifier.AnalyzeIssue(gctx, imageJPEG, description)
		return nil
	})
	// Both branches degrade internally instead of erroring, so the join
	// only propagates context cancellation.
	if err := g.Wait(); err != nil {
		r.mu.Lock()
		r.state = StateCapturing
		r.image = nil
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = location
	r.classification = classification
	if !classification.IsCivicIssue {
		r.state = StateRejected
		return nil
	}
	r.state = StateReady
	return nil
}

// Retake discards the image and analysis, returning to capturing. Valid
// from rejected (the only exit) and from ready (user changed their mind).
func (r *Report) Retake() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRejected && r.state != StateReady {
		return fmt.Errorf("cannot retake in state %q", r.state)
	}
	r.state = StateCapturing
	r.image = nil
	r.classification = ai.Classification{}
	r.location = models.Location{}
	r.audio = nil
	return nil
}

// RejectionReason returns the model's explanation for a rejected report.
func (r *Report) RejectionReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classification.RejectionReason
}

// Location returns the resolved draft location.
func (r *Report) Location() models.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Classification returns the draft classification.
func (r *Report) Classification() ai.Classification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classification
}

// Submit turns the confirmed draft into an issue and appends it to the
// store. New issues always start PENDING with zero upvotes and no comments.
func (r *Report) Submit(ctx context.Context) (models.Issue, error) {
	r.mu.Lock()
	if r.state != StateReady {
		state := r.state
		r.mu.Unlock()
		return models.Issue{}, fmt.Errorf("cannot submit in state %q", state)
	}
	r.state = StateSubmitting

	title := r.classification.Summary
	if title == "" {
		title = r.classification.Category
	}
	if title == "" {
		title = "Reported Issue"
	}
	description := r.description
	if description == "" {
		description = "No description provided."
	}

	issue := models.Issue{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Category:    r.classification.Category,
		Status:      models.Pending,
		Location:    r.location,
		Image:       DataURI(r.image),
		ReportedBy:  r.user.ID,
		ReportedAt:  time.Now(),
		Priority:    r.classification.Priority,
		Department:  r.classification.Department,
		Upvotes:     0,
		Comments:    []models.Comment{},
	}
	r.mu.Unlock()

	if err := r.issues.Create(ctx, issue); err != nil {
		r.mu.Lock()
		r.state = StateReady
		r.mu.Unlock()
		return models.Issue{}, fmt.Errorf("storing issue: %w", err)
	}

	r.mu.Lock()
	r.state = StateDone
	r.mu.Unlock()
	return issue, nil
}

// DataURI encodes a captured JPEG the way issue images are stored.
func DataURI(imageJPEG []byte) string {
	if len(imageJPEG) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageJPEG)
}
