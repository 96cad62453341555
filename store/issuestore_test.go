package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myvoice-be/models"
)

// countingKV wraps a KV and counts writes, to verify mutations persist in a
// single write.
type countingKV struct {
	KV
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.KV.Set(ctx, key, value)
}

func newSeededStore(t *testing.T) (*IssueStore, KV) {
	t.Helper()
	kv := NewMemoryKV()
	s := NewIssueStore(kv)
	require.NoError(t, s.LoadOrSeed(context.Background()))
	return s, kv
}

func TestLoadOrSeedInstallsDemoData(t *testing.T) {
	s, kv := newSeededStore(t)

	issues := s.List()
	require.Len(t, issues, 5)
	assert.Equal(t, "1", issues[0].ID)

	// The seed must have been written through immediately.
	raw, err := kv.Get(context.Background(), KeyIssues)
	require.NoError(t, err)

	var env issueEnvelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, SchemaVersion, env.Version)
	assert.Len(t, env.Issues, 5)
}

func TestLoadOrSeedKeepsExistingData(t *testing.T) {
	s, kv := newSeededStore(t)
	require.NoError(t, s.Create(context.Background(), models.Issue{ID: "extra"}))

	reloaded := NewIssueStore(kv)
	require.NoError(t, reloaded.LoadOrSeed(context.Background()))
	assert.Len(t, reloaded.List(), 6)
	assert.Equal(t, "extra", reloaded.List()[0].ID)
}

func TestLoadOrSeedRejectsUnknownSchemaVersion(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), KeyIssues, []byte(`{"version":99,"issues":[]}`)))

	s := NewIssueStore(kv)
	err := s.LoadOrSeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestCreatePrependsMostRecentFirst(t *testing.T) {
	s, kv := newSeededStore(t)

	require.NoError(t, s.Create(context.Background(), models.Issue{ID: "new", Title: "New pothole"}))

	issues := s.List()
	require.Len(t, issues, 6)
	assert.Equal(t, "new", issues[0].ID)

	// Stored state always mirrors memory.
	reloaded := NewIssueStore(kv)
	require.NoError(t, reloaded.LoadOrSeed(context.Background()))
	assert.Equal(t, issues, reloaded.List())
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	s, _ := newSeededStore(t)
	before, ok := s.Get("1")
	require.True(t, ok)

	status := models.Assigned
	worker := "WORKER_01"
	err := s.Update(context.Background(), "1", IssuePatch{Status: &status, AssignedTo: &worker})
	require.NoError(t, err)

	after, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, models.Assigned, after.Status)
	assert.Equal(t, "WORKER_01", after.AssignedTo)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Upvotes, after.Upvotes)
}

func TestUpdateEmptyPatchLeavesIssueUnchanged(t *testing.T) {
	s, kv := newSeededStore(t)
	before := s.List()
	rawBefore, err := kv.Get(context.Background(), KeyIssues)
	require.NoError(t, err)

	require.NoError(t, s.Update(context.Background(), "1", IssuePatch{}))

	assert.Equal(t, before, s.List())
	rawAfter, err := kv.Get(context.Background(), KeyIssues)
	require.NoError(t, err)
	assert.Equal(t, rawBefore, rawAfter)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s, _ := newSeededStore(t)
	before := s.List()

	status := models.Resolved
	require.NoError(t, s.Update(context.Background(), "nope", IssuePatch{Status: &status}))
	assert.Equal(t, before, s.List())
}

func TestUpvoteIncrements(t *testing.T) {
	s, _ := newSeededStore(t)
	before, _ := s.Get("2")

	require.NoError(t, s.Upvote(context.Background(), "2"))

	after, _ := s.Get("2")
	assert.Equal(t, before.Upvotes+1, after.Upvotes)
}

func TestAddCommentKeepsInsertionOrder(t *testing.T) {
	s, _ := newSeededStore(t)

	first := models.Comment{ID: "ca", UserID: "u1", UserName: "A", Text: "first"}
	second := models.Comment{ID: "cb", UserID: "u2", UserName: "B", Text: "second"}
	require.NoError(t, s.AddComment(context.Background(), "2", first))
	require.NoError(t, s.AddComment(context.Background(), "2", second))

	issue, _ := s.Get("2")
	require.Len(t, issue.Comments, 2)
	assert.Equal(t, "first", issue.Comments[0].Text)
	assert.Equal(t, "second", issue.Comments[1].Text)
}

func TestMergeDuplicateIsSingleWrite(t *testing.T) {
	mem := NewMemoryKV()
	kv := &countingKV{KV: mem}
	s := NewIssueStore(kv)
	require.NoError(t, s.LoadOrSeed(context.Background()))

	origUpvotes, _ := s.Get("1")
	kv.sets = 0
	require.NoError(t, s.MergeDuplicate(context.Background(), "2", "1"))
	assert.Equal(t, 1, kv.sets)

	dup, _ := s.Get("2")
	orig, _ := s.Get("1")
	assert.Equal(t, models.Rejected, dup.Status)
	assert.Equal(t, origUpvotes.Upvotes+1, orig.Upvotes)
}

func TestMergeDuplicateUnknownIssueFails(t *testing.T) {
	s, _ := newSeededStore(t)
	assert.Error(t, s.MergeDuplicate(context.Background(), "2", "nope"))
	assert.Error(t, s.MergeDuplicate(context.Background(), "nope", "1"))

	// Nothing changed.
	dup, _ := s.Get("2")
	assert.NotEqual(t, models.Rejected, dup.Status)
}

func TestListReturnsCopies(t *testing.T) {
	s, _ := newSeededStore(t)

	issues := s.List()
	issues[0].Title = "mutated"
	issues[0].Comments[0].Text = "mutated"

	fresh, _ := s.Get("1")
	assert.NotEqual(t, "mutated", fresh.Title)
	assert.NotEqual(t, "mutated", fresh.Comments[0].Text)
}
