package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myvoice-be/ai"
	"myvoice-be/geo"
	"myvoice-be/models"
	"myvoice-be/store"
)

type fakeClassifier struct {
	result ai.Classification
	calls  int
	gotDsc string
}

func (f *fakeClassifier) AnalyzeIssue(_ context.Context, _ []byte, description string) ai.Classification {
	f.calls++
	f.gotDsc = description
	return f.result
}

type fakeLocator struct {
	loc models.Location
}

func (f *fakeLocator) Resolve(_ context.Context) models.Location {
	return f.loc
}

func validClassification() ai.Classification {
	return ai.Classification{
		IsCivicIssue: true,
		Category:     "Roads & Safety",
		Department:   "Public Works",
		Priority:     models.PriorityHigh,
		Summary:      "Pothole on main road",
	}
}

func newTestReport(classifier Classifier) (*Report, *store.IssueStore) {
	issues := store.NewIssueStore(store.NewMemoryKV())
	locator := &fakeLocator{loc: models.Location{Lat: 19.1, Lng: 72.9, Address: "Ward 12"}}
	user := models.User{ID: "u1", Name: "Demo Citizen", Role: models.RoleCitizen}
	return NewReport(classifier, locator, issues, user), issues
}

func TestReportHappyPath(t *testing.T) {
	r, issues := newTestReport(&fakeClassifier{result: validClassification()})
	assert.Equal(t, StateCapturing, r.State())

	r.SetDescription("deep pothole near the signal")
	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))
	assert.Equal(t, StateReady, r.State())
	assert.Equal(t, "Ward 12", r.Location().Address)

	issue, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, r.State())

	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, "Pothole on main road", issue.Title)
	assert.Equal(t, "deep pothole near the signal", issue.Description)
	assert.Equal(t, models.Pending, issue.Status)
	assert.Equal(t, 0, issue.Upvotes)
	assert.Empty(t, issue.Comments)
	assert.Equal(t, "u1", issue.ReportedBy)
	assert.True(t, strings.HasPrefix(issue.Image, "data:image/jpeg;base64,"))

	stored := issues.List()
	require.Len(t, stored, 1)
	assert.Equal(t, issue.ID, stored[0].ID)
}

func TestReportDefaultsWhenDescriptionMissing(t *testing.T) {
	r, _ := newTestReport(&fakeClassifier{result: validClassification()})
	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))

	issue, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No description provided.", issue.Description)
}

func TestReportTitleFallbackChain(t *testing.T) {
	classification := validClassification()
	classification.Summary = ""
	r, _ := newTestReport(&fakeClassifier{result: classification})
	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))

	issue, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Roads & Safety", issue.Title)
}

func TestReportRejectionBlocksSubmission(t *testing.T) {
	classifier := &fakeClassifier{result: ai.Classification{
		IsCivicIssue:    false,
		RejectionReason: "This looks like a selfie.",
	}}
	r, issues := newTestReport(classifier)

	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))
	assert.Equal(t, StateRejected, r.State())
	assert.Equal(t, "This looks like a selfie.", r.RejectionReason())

	// A rejected photo never reaches the store.
	_, err := r.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, issues.List())

	// Retake is the only way forward.
	require.NoError(t, r.Retake())
	assert.Equal(t, StateCapturing, r.State())
	assert.Empty(t, r.RejectionReason())

	classifier.result = validClassification()
	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg2")))
	assert.Equal(t, StateReady, r.State())
}

func TestReportOutOfOrderCalls(t *testing.T) {
	r, _ := newTestReport(&fakeClassifier{result: validClassification()})

	_, err := r.Submit(context.Background())
	assert.Error(t, err)
	assert.Error(t, r.Retake())

	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))
	assert.Error(t, r.AttachImage(context.Background(), []byte("jpeg")))
}

func TestReportClassifierSeesDescription(t *testing.T) {
	classifier := &fakeClassifier{result: validClassification()}
	r, _ := newTestReport(classifier)

	r.SetDescription("overflowing garbage bin")
	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))
	assert.Equal(t, "overflowing garbage bin", classifier.gotDsc)
	assert.Equal(t, 1, classifier.calls)
}

func TestReportLocationDenialStillSubmits(t *testing.T) {
	issues := store.NewIssueStore(store.NewMemoryKV())
	locator := &geo.SimulatedLocator{Err: geo.ErrPermissionDenied}
	resolver := geo.NewResolver(locator, geo.NewSimulatedGeocoder(), 0)
	user := models.User{ID: "u1"}
	r := NewReport(&fakeClassifier{result: validClassification()}, resolver, issues, user)

	require.NoError(t, r.AttachImage(context.Background(), []byte("jpeg")))
	issue, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geo.SentinelLat, issue.Location.Lat)
	assert.Equal(t, geo.AddressUnavailable, issue.Location.Address)
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "", DataURI(nil))
	assert.Equal(t, "data:image/jpeg;base64,aGk=", DataURI([]byte("hi")))
}
