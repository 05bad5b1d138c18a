package events

import (
	"testing"
)

func pushPayload(commits ...map[string]any) map[string]any {
	raw := make([]any, 0, len(commits))
	for _, c := range commits {
		raw = append(raw, c)
	}
	return map[string]any{
		"repository": map[string]any{
			"full_name":   "acme/widgets",
			"description": "Widget factory",
		},
		"commits": raw,
	}
}

func prPayload(action string) map[string]any {
	return map[string]any{
		"action": action,
		"repository": map[string]any{
			"full_name": "acme/widgets",
		},
		"pull_request": map[string]any{
			"number": float64(42),
			"title":  "Add frobnicator",
			"body":   "Implements the frobnicator.",
			"state":  "open",
			"user":   map[string]any{"login": "octocat"},
			"head":   map[string]any{"ref": "feature/frob"},
			"base":   map[string]any{"ref": "main"},
		},
	}
}

func TestNormalize_Push(t *testing.T) {
	payload := pushPayload(map[string]any{
		"message":  "Fix login bug",
		"author":   map[string]any{"name": "Ada"},
		"added":    []any{"auth.go"},
		"modified": []any{"login.go", "session.go"},
	})

	event, err := Normalize("push", payload)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if event == nil {
		t.Fatal("Normalize returned nil event")
	}
	if event.Kind != KindPush {
		t.Errorf("Kind = %s, want %s", event.Kind, KindPush)
	}
	if event.Repository.FullName != "acme/widgets" {
		t.Errorf("Repository.FullName = %s, want acme/widgets", event.Repository.FullName)
	}
	if event.Repository.Description != "Widget factory" {
		t.Errorf("Repository.Description = %s, want Widget factory", event.Repository.Description)
	}
	if len(event.Commits) != 1 {
		t.Fatalf("len(Commits) = %d, want 1", len(event.Commits))
	}
	commit := event.Commits[0]
	if commit.Message != "Fix login bug" {
		t.Errorf("Message = %s", commit.Message)
	}
	if commit.AuthorName != "Ada" {
		t.Errorf("AuthorName = %s, want Ada", commit.AuthorName)
	}
	if len(commit.FilesModified) != 2 {
		t.Errorf("len(FilesModified) = %d, want 2", len(commit.FilesModified))
	}
	// Missing "removed" array defaults to empty, not nil panic.
	if commit.FilesRemoved == nil || len(commit.FilesRemoved) != 0 {
		t.Errorf("FilesRemoved = %v, want empty slice", commit.FilesRemoved)
	}
}

func TestNormalize_PushWithoutCommits(t *testing.T) {
	event, err := Normalize("push", pushPayload())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if event != nil {
		t.Errorf("expected nil event for commitless push, got %+v", event)
	}
}

func TestNormalize_PullRequest(t *testing.T) {
	event, err := Normalize("pull_request", prPayload("opened"))
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if event == nil {
		t.Fatal("Normalize returned nil event")
	}
	if event.Kind != KindPullRequest {
		t.Errorf("Kind = %s, want %s", event.Kind, KindPullRequest)
	}
	pr := event.PullRequest
	if pr == nil {
		t.Fatal("PullRequest is nil")
	}
	if pr.Number != 42 {
		t.Errorf("Number = %d, want 42", pr.Number)
	}
	if pr.AuthorLogin != "octocat" {
		t.Errorf("AuthorLogin = %s, want octocat", pr.AuthorLogin)
	}
	if pr.HeadRef != "feature/frob" || pr.BaseRef != "main" {
		t.Errorf("branches = %s -> %s", pr.HeadRef, pr.BaseRef)
	}
}

func TestNormalize_PullRequestActionFilter(t *testing.T) {
	accepted := []string{"opened", "closed", "reopened", "synchronize", "ready_for_review"}
	for _, action := range accepted {
		event, err := Normalize("pull_request", prPayload(action))
		if err != nil {
			t.Errorf("action %s: unexpected error: %v", action, err)
		}
		if event == nil {
			t.Errorf("action %s: expected event, got nil", action)
		}
	}

	filtered := []string{"labeled", "assigned", "review_requested", "edited"}
	for _, action := range filtered {
		event, err := Normalize("pull_request", prPayload(action))
		if err != nil {
			t.Errorf("action %s: unexpected error: %v", action, err)
		}
		if event != nil {
			t.Errorf("action %s: expected nil event, got %+v", action, event)
		}
	}
}

func TestNormalize_UnsupportedEventType(t *testing.T) {
	event, err := Normalize("issues", map[string]any{"action": "opened"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("expected nil event for unsupported type, got %+v", event)
	}
}

func TestNormalize_MissingRepository(t *testing.T) {
	payload := map[string]any{
		"commits": []any{map[string]any{"message": "orphan"}},
	}
	if _, err := Normalize("push", payload); err == nil {
		t.Error("expected error for missing repository, got nil")
	}

	if _, err := Normalize("pull_request", map[string]any{"action": "opened"}); err == nil {
		t.Error("expected error for missing repository, got nil")
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name     string
		commits  []Commit
		pr       *PullRequest
		wantKind Kind
		wantOK   bool
	}{
		{"commits present", []Commit{{Message: "x"}}, nil, KindPush, true},
		{"pr present", nil, &PullRequest{Number: 1}, KindPullRequest, true},
		{"commits win over pr", []Commit{{Message: "x"}}, &PullRequest{Number: 1}, KindPush, true},
		{"neither", nil, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := InferKind(tt.commits, tt.pr)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", kind, tt.wantKind)
			}
		})
	}
}
