package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"myvoice-be/ai"
	"myvoice-be/models"
	"myvoice-be/store"
)

// DuplicateChecker compares two issue photos.
type DuplicateChecker interface {
	CheckDuplicate(ctx context.Context, candidateJPEG, existingJPEG []byte) ai.DuplicateResult
}

// ImageFetcher resolves an issue's stored image reference into raw bytes.
// References are either data URIs (captured photos) or plain URLs (seed data).
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// HTTPFetcher fetches plain URLs over HTTP and decodes data URIs in place.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		comma := strings.IndexByte(ref, ',')
		if comma < 0 {
			return nil, errors.New("malformed data URI")
		}
		return base64.StdEncoding.DecodeString(ref[comma+1:])
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Match is a confirmed duplicate pairing.
type Match struct {
	Original models.Issue `json:"original"`
	Reason   string       `json:"reason"`
}

// Scanner finds earlier reports of the same real-world problem.
type Scanner struct {
	issues  *store.IssueStore
	checker DuplicateChecker
	fetcher ImageFetcher
}

// NewScanner builds a scanner over the issue store.
func NewScanner(issues *store.IssueStore, checker DuplicateChecker, fetcher ImageFetcher) *Scanner {
	return &Scanner{issues: issues, checker: checker, fetcher: fetcher}
}

// Scan compares the candidate issue's photo against every other open issue
// that has one, most recent first, and returns the first confirmed match.
// Issues without an image and issues in a terminal status are skipped, as is
// any pair whose photo cannot be fetched. Returns nil when nothing matches.
func (s *Scanner) Scan(ctx context.Context, candidateID string) (*Match, error) {
	candidate, ok := s.issues.Get(candidateID)
	if !ok {
		return nil, fmt.Errorf("issue %s not found", candidateID)
	}
	if candidate.Image == "" {
		return nil, errors.New("issue has no image to compare")
	}
	candidateJPEG, err := s.fetcher.Fetch(ctx, candidate.Image)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate image: %w", err)
	}

	for _, other := range s.issues.List() {
		if other.ID == candidate.ID || other.Image == "" || other.Status.IsTerminal() {
			continue
		}
		otherJPEG, err := s.fetcher.Fetch(ctx, other.Image)
		if err != nil {
			log.Println("Skipping duplicate comparison, image fetch failed:", err)
			continue
		}
		result := s.checker.CheckDuplicate(ctx, candidateJPEG, otherJPEG)
		if result.IsDuplicate {
			return &Match{Original: other, Reason: result.Reason}, nil
		}
	}
	return nil, nil
}

// Merge folds the duplicate into the original: the duplicate is rejected and
// the original gains one upvote, atomically.
func (s *Scanner) Merge(ctx context.Context, duplicateID, originalID string) error {
	return s.issues.MergeDuplicate(ctx, duplicateID, originalID)
}
