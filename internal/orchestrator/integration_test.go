package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/mapper"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

// fullTracker satisfies both the orchestrator's search surface and the
// mapper's mutation surface, counting tracker mutations.
type fullTracker struct {
	mutations atomic.Int64
}

func (f *fullTracker) SearchIssues(ctx context.Context, teamID, text string, limit int) ([]*linear.Issue, error) {
	return nil, nil
}

func (f *fullTracker) CreateIssue(ctx context.Context, input *linear.IssueInput) (*linear.Issue, error) {
	f.mutations.Add(1)
	return &linear.Issue{ID: "issue-1", Identifier: "ENG-1", Title: input.Title}, nil
}

func (f *fullTracker) UpdateIssue(ctx context.Context, issueID string, update *linear.IssueUpdate) (*linear.Issue, error) {
	f.mutations.Add(1)
	return &linear.Issue{ID: issueID, Identifier: "ENG-1"}, nil
}

func (f *fullTracker) ListLabels(ctx context.Context, teamID string) ([]linear.Label, error) {
	return []linear.Label{{ID: "label-1", Name: "bug"}}, nil
}

func (f *fullTracker) CreateLabel(ctx context.Context, teamID, name, color string) (*linear.Label, error) {
	f.mutations.Add(1)
	return &linear.Label{ID: "label-" + name, Name: name}, nil
}

func (f *fullTracker) SearchUsers(ctx context.Context, text string) ([]linear.User, error) {
	return nil, nil
}

func llmServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
			"usage":   map[string]any{"total_tokens": 100},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func realPipeline(t *testing.T, llmURL string, tracker *fullTracker) *Orchestrator {
	t.Helper()
	llm := analyzer.New(&analyzer.Config{
		Provider: "openai",
		APIKey:   "test-key",
		BaseURL:  llmURL,
		Model:    "gpt-4o-mini",
	})
	m := mapper.New(tracker, "team-1", "")
	return New(llm, tracker, m, "team-1", "")
}

func twoCommitPush() map[string]any {
	return map[string]any{
		"repository": map[string]any{"full_name": "acme/widgets"},
		"commits": []any{
			map[string]any{"message": "Fix parser", "author": map[string]any{"name": "Ada"}},
			map[string]any{"message": "Add tests", "author": map[string]any{"name": "Ada"}},
		},
	}
}

func TestPipeline_PushCreatesOneTask(t *testing.T) {
	content := `{
		"summary": "Parser fixed",
		"shouldCreateTasks": true,
		"suggestions": [
			{"action": "create", "confidence": 0.9, "title": "Fix X", "priority": 2, "labels": ["bug"], "reasoning": "follow-up"}
		]
	}`
	server := llmServer(t, content)
	defer server.Close()

	tracker := &fullTracker{}
	outcome, err := realPipeline(t, server.URL, tracker).ProcessEvent(context.Background(), "push", twoCommitPush())
	if err != nil {
		t.Fatalf("ProcessEvent returned error: %v", err)
	}
	if outcome == nil {
		t.Fatal("outcome is nil")
	}
	if len(outcome.Created) != 1 {
		t.Errorf("len(Created) = %d, want 1", len(outcome.Created))
	}
	if len(outcome.Errors) != 0 {
		t.Errorf("Errors = %v, want none", outcome.Errors)
	}
	// One issue create; the "bug" label already existed so no label create.
	if got := tracker.mutations.Load(); got != 1 {
		t.Errorf("tracker mutations = %d, want exactly 1", got)
	}
}

func TestPipeline_InvalidLLMJSONMakesNoTrackerCalls(t *testing.T) {
	server := llmServer(t, "not json")
	defer server.Close()

	tracker := &fullTracker{}
	_, err := realPipeline(t, server.URL, tracker).ProcessEvent(context.Background(), "push", twoCommitPush())
	if err == nil {
		t.Fatal("expected fatal error for invalid LLM JSON")
	}
	if tracker.mutations.Load() != 0 {
		t.Errorf("tracker mutations = %d, want 0", tracker.mutations.Load())
	}
}

func TestPipeline_LowConfidenceSkippedSilently(t *testing.T) {
	content := `{
		"summary": "minor",
		"shouldCreateTasks": true,
		"suggestions": [
			{"action": "create", "confidence": 0.5, "title": "Maybe", "priority": 3}
		]
	}`
	server := llmServer(t, content)
	defer server.Close()

	tracker := &fullTracker{}
	outcome, err := realPipeline(t, server.URL, tracker).ProcessEvent(context.Background(), "push", twoCommitPush())
	if err != nil {
		t.Fatalf("ProcessEvent returned error: %v", err)
	}
	if outcome == nil {
		t.Fatal("outcome is nil")
	}
	if tracker.mutations.Load() != 0 {
		t.Errorf("tracker mutations = %d, want 0", tracker.mutations.Load())
	}
	if len(outcome.Errors) != 0 {
		t.Errorf("gated suggestion recorded errors: %v", outcome.Errors)
	}
}
