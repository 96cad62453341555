package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"myvoice-be/models"
)

// issueEnvelope is the persisted shape under KeyIssues.
type issueEnvelope struct {
	Version int            `json:"version"`
	Issues  []models.Issue `json:"issues"`
}

// IssuePatch is a partial-field merge update. Nil fields are left untouched.
// Status transitions are not validated here; callers sequence them.
type IssuePatch struct {
	Title       *string
	Description *string
	Category    *string
	Status      *models.IssueStatus
	Location    *models.Location
	Image       *string
	AssignedTo  *string
	Priority    *models.IssuePriority
	Department  *string
}

// IssueStore is the single owner of the issue collection. The in-memory
// slice is ordered most-recent-first and every mutation is immediately
// followed by a full-collection write to the backing KV store. There is no
// batching: write volume is traded for crash safety.
type IssueStore struct {
	mu     sync.Mutex
	kv     KV
	issues []models.Issue
}

// NewIssueStore creates a store over the given backend. Call LoadOrSeed
// before serving traffic.
func NewIssueStore(kv KV) *IssueStore {
	return &IssueStore{kv: kv}
}

// LoadOrSeed reads the persisted collection, installing the demo seed when
// nothing has been written yet.
func (s *IssueStore) LoadOrSeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.kv.Get(ctx, KeyIssues)
	if err == ErrKeyNotFound {
		s.issues = models.SeedIssues(time.Now())
		log.Println("No saved issues found, installing demo seed")
		return s.persist(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading issues: %w", err)
	}

	var env issueEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding issues: %w", err)
	}
	if env.Version != SchemaVersion {
		return fmt.Errorf("unsupported issues schema version %d", env.Version)
	}
	s.issues = env.Issues
	return nil
}

// Create prepends the issue (most-recent-first) and persists.
func (s *IssueStore) Create(ctx context.Context, issue models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append([]models.Issue{issue}, s.issues...)
	return s.persist(ctx)
}

// Update merges non-nil patch fields into the issue with the given id.
// Unknown ids are a silent no-op. The collection is persisted afterwards
// either way so the stored state always mirrors memory.
func (s *IssueStore) Update(ctx context.Context, id string, patch IssuePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issues {
		if s.issues[i].ID != id {
			continue
		}
		applyPatch(&s.issues[i], patch)
		break
	}
	return s.persist(ctx)
}

func applyPatch(issue *models.Issue, patch IssuePatch) {
	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Category != nil {
		issue.Category = *patch.Category
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}
	if patch.Location != nil {
		issue.Location = *patch.Location
	}
	if patch.Image != nil {
		issue.Image = *patch.Image
	}
	if patch.AssignedTo != nil {
		issue.AssignedTo = *patch.AssignedTo
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.Department != nil {
		issue.Department = *patch.Department
	}
}

// AddComment appends a comment to the issue. Comments are append-only and
// keep insertion order.
func (s *IssueStore) AddComment(ctx context.Context, id string, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issues {
		if s.issues[i].ID == id {
			s.issues[i].Comments = append(s.issues[i].Comments, comment)
			break
		}
	}
	return s.persist(ctx)
}

// Upvote increments the issue's upvote counter.
func (s *IssueStore) Upvote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issues {
		if s.issues[i].ID == id {
			s.issues[i].Upvotes++
			break
		}
	}
	return s.persist(ctx)
}

// MergeDuplicate resolves a confirmed duplicate in a single mutation: the
// duplicate is rejected (never deleted) and the original is credited with
// one upvote, then the collection is persisted once. Doing both under one
// write removes the partial-failure window a two-step update would have.
func (s *IssueStore) MergeDuplicate(ctx context.Context, duplicateID, originalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dup, orig *models.Issue
	for i := range s.issues {
		switch s.issues[i].ID {
		case duplicateID:
			dup = &s.issues[i]
		case originalID:
			orig = &s.issues[i]
		}
	}
	if dup == nil || orig == nil {
		return fmt.Errorf("merge: issue not found")
	}
	dup.Status = models.Rejected
	orig.Upvotes++
	return s.persist(ctx)
}

// Get returns a copy of the issue with the given id.
func (s *IssueStore) Get(id string) (models.Issue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issues {
		if s.issues[i].ID == id {
			return copyIssue(s.issues[i]), true
		}
	}
	return models.Issue{}, false
}

// List returns a copy of the full collection, most-recent-first.
func (s *IssueStore) List() []models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Issue, len(s.issues))
	for i := range s.issues {
		out[i] = copyIssue(s.issues[i])
	}
	return out
}

func copyIssue(issue models.Issue) models.Issue {
	comments := make([]models.Comment, len(issue.Comments))
	copy(comments, issue.Comments)
	issue.Comments = comments
	return issue
}

func (s *IssueStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(issueEnvelope{Version: SchemaVersion, Issues: s.issues})
	if err != nil {
		return fmt.Errorf("encoding issues: %w", err)
	}
	if err := s.kv.Set(ctx, KeyIssues, raw); err != nil {
		return fmt.Errorf("persisting issues: %w", err)
	}
	return nil
}
