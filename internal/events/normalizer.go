package events

import (
	"fmt"
)

// prActions is the set of pull_request actions worth analyzing. Everything
// else (labeled, assigned, review_requested, ...) is noise for task creation.
var prActions = map[string]bool{
	"opened":           true,
	"closed":           true,
	"reopened":         true,
	"synchronize":      true,
	"ready_for_review": true,
}

// Normalize converts a raw webhook payload into an Event. The event type
// comes from the X-GitHub-Event header. A nil Event with a nil error means
// the delivery was intentionally filtered out (unsupported event type or
// pull_request action) and should be acknowledged as a no-op.
func Normalize(eventType string, payload map[string]any) (*Event, error) {
	switch eventType {
	case "push":
		return normalizePush(payload)
	case "pull_request":
		return normalizePullRequest(payload)
	default:
		return nil, nil
	}
}

// InferKind applies the kind-inference policy: a push if commits are present,
// a pull request if a pull_request object is present, otherwise no kind.
// The second return value is false when the event should be dropped.
func InferKind(commits []Commit, pr *PullRequest) (Kind, bool) {
	if len(commits) > 0 {
		return KindPush, true
	}
	if pr != nil {
		return KindPullRequest, true
	}
	return "", false
}

func normalizePush(payload map[string]any) (*Event, error) {
	repo, err := extractRepository(payload)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	if rawCommits, ok := payload["commits"].([]any); ok {
		for _, raw := range rawCommits {
			commitData, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			commits = append(commits, extractCommit(commitData))
		}
	}

	kind, ok := InferKind(commits, nil)
	if !ok {
		// Push with no commits (branch delete, tag push): nothing to analyze.
		return nil, nil
	}

	return &Event{
		Kind:       kind,
		Repository: repo,
		Commits:    commits,
	}, nil
}

func normalizePullRequest(payload map[string]any) (*Event, error) {
	action, _ := payload["action"].(string)
	if !prActions[action] {
		return nil, nil
	}

	repo, err := extractRepository(payload)
	if err != nil {
		return nil, err
	}

	prData, ok := payload["pull_request"].(map[string]any)
	if !ok {
		return nil, nil
	}
	pr := extractPullRequest(prData)

	kind, ok := InferKind(nil, pr)
	if !ok {
		return nil, nil
	}

	return &Event{
		Kind:        kind,
		Repository:  repo,
		PullRequest: pr,
	}, nil
}

// extractRepository pulls repository identity out of the payload. A payload
// without a repository cannot be processed at all.
func extractRepository(payload map[string]any) (Repository, error) {
	repoData, ok := payload["repository"].(map[string]any)
	if !ok {
		return Repository{}, fmt.Errorf("missing repository in payload")
	}

	fullName, ok := repoData["full_name"].(string)
	if !ok || fullName == "" {
		return Repository{}, fmt.Errorf("missing repository full_name in payload")
	}

	repo := Repository{FullName: fullName}
	if description, ok := repoData["description"].(string); ok {
		repo.Description = description
	}
	return repo, nil
}

func extractCommit(data map[string]any) Commit {
	commit := Commit{}
	if message, ok := data["message"].(string); ok {
		commit.Message = message
	}
	if author, ok := data["author"].(map[string]any); ok {
		commit.AuthorName, _ = author["name"].(string)
	}
	commit.FilesAdded = extractStringList(data["added"])
	commit.FilesRemoved = extractStringList(data["removed"])
	commit.FilesModified = extractStringList(data["modified"])
	return commit
}

func extractPullRequest(data map[string]any) *PullRequest {
	pr := &PullRequest{}
	if number, ok := data["number"].(float64); ok {
		pr.Number = int(number)
	}
	pr.Title, _ = data["title"].(string)
	pr.Body, _ = data["body"].(string)
	pr.State, _ = data["state"].(string)
	if user, ok := data["user"].(map[string]any); ok {
		pr.AuthorLogin, _ = user["login"].(string)
	}
	if head, ok := data["head"].(map[string]any); ok {
		pr.HeadRef, _ = head["ref"].(string)
	}
	if base, ok := data["base"].(map[string]any); ok {
		pr.BaseRef, _ = base["ref"].(string)
	}
	return pr
}

// extractStringList converts a raw JSON array to a string slice,
// defaulting to empty when the field is missing or malformed.
func extractStringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
