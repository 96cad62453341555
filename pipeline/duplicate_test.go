package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myvoice-be/ai"
	"myvoice-be/models"
	"myvoice-be/store"
)

// fakeChecker flags a duplicate when the existing image bytes carry the
// "dup" marker.
type fakeChecker struct {
	compared [][]byte
}

func (f *fakeChecker) CheckDuplicate(_ context.Context, _, existingJPEG []byte) ai.DuplicateResult {
	f.compared = append(f.compared, existingJPEG)
	if strings.Contains(string(existingJPEG), "dup") {
		return ai.DuplicateResult{IsDuplicate: true, Reason: "Same pothole."}
	}
	return ai.DuplicateResult{IsDuplicate: false, Reason: "Different issues."}
}

// fakeFetcher returns the ref itself as bytes; refs named "bad" fail.
type fakeFetcher struct{}

func (fakeFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	if strings.Contains(ref, "bad") {
		return nil, errors.New("fetch failed")
	}
	return []byte(ref), nil
}

func newScannerFixture(t *testing.T) (*Scanner, *store.IssueStore, *fakeChecker) {
	t.Helper()
	issues := store.NewIssueStore(store.NewMemoryKV())
	ctx := context.Background()

	// Created oldest first; the store keeps most-recent-first order.
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "older-dup", Image: "dup-2", Status: models.Pending}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "match", Image: "dup-1", Status: models.Pending}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "broken", Image: "bad-ref", Status: models.Pending}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "resolved", Image: "dup-3", Status: models.Resolved}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "no-image", Status: models.Pending}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "cand", Image: "cand-img", Status: models.Pending}))

	checker := &fakeChecker{}
	return NewScanner(issues, checker, fakeFetcher{}), issues, checker
}

func TestScanReturnsFirstMatchMostRecentFirst(t *testing.T) {
	s, _, checker := newScannerFixture(t)

	match, err := s.Scan(context.Background(), "cand")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "match", match.Original.ID)
	assert.Equal(t, "Same pothole.", match.Reason)

	// Skipped: the candidate itself, the imageless issue, the resolved
	// issue, and the pair whose image could not be fetched. The scan stops
	// at the first confirmed match, so older-dup is never compared.
	assert.Equal(t, [][]byte{[]byte("dup-1")}, checker.compared)
}

func TestScanNoMatch(t *testing.T) {
	issues := store.NewIssueStore(store.NewMemoryKV())
	ctx := context.Background()
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "other", Image: "clean", Status: models.Pending}))
	require.NoError(t, issues.Create(ctx, models.Issue{ID: "cand", Image: "cand-img", Status: models.Pending}))

	s := NewScanner(issues, &fakeChecker{}, fakeFetcher{})
	match, err := s.Scan(ctx, "cand")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestScanErrors(t *testing.T) {
	s, issues, _ := newScannerFixture(t)

	_, err := s.Scan(context.Background(), "missing")
	assert.Error(t, err)

	_, err = s.Scan(context.Background(), "no-image")
	assert.Error(t, err)

	// Candidate image unfetchable is a hard error, unlike other pairs.
	require.NoError(t, issues.Create(context.Background(), models.Issue{ID: "cand-bad", Image: "bad-cand", Status: models.Pending}))
	_, err = s.Scan(context.Background(), "cand-bad")
	assert.Error(t, err)
}

func TestMergeFoldsDuplicateIntoOriginal(t *testing.T) {
	s, issues, _ := newScannerFixture(t)
	before, _ := issues.Get("match")

	require.NoError(t, s.Merge(context.Background(), "cand", "match"))

	dup, _ := issues.Get("cand")
	orig, _ := issues.Get("match")
	assert.Equal(t, models.Rejected, dup.Status)
	assert.Equal(t, before.Upvotes+1, orig.Upvotes)
}

func TestHTTPFetcherDataURI(t *testing.T) {
	var f HTTPFetcher
	data, err := f.Fetch(context.Background(), "data:image/jpeg;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)

	_, err = f.Fetch(context.Background(), "data:nocomma")
	assert.Error(t, err)
}

func TestHTTPFetcherURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	f := HTTPFetcher{Client: srv.Client()}
	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestHTTPFetcherNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := HTTPFetcher{Client: srv.Client()}
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
