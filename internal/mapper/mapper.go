// Package mapper converts validated LLM suggestions into Linear issue
// operations, resolving assignee and label names to tracker identifiers.
package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

// confidenceThreshold is the fixed gate below which suggestions are
// discarded without error.
const confidenceThreshold = 0.7

// labelPalette holds the display colors assigned to auto-created labels.
var labelPalette = []string{
	"#e11d48", "#f97316", "#f59e0b", "#84cc16", "#10b981",
	"#06b6d4", "#3b82f6", "#8b5cf6", "#d946ef", "#64748b",
}

// TrackerClient is the subset of the Linear client the mapper needs.
type TrackerClient interface {
	CreateIssue(ctx context.Context, input *linear.IssueInput) (*linear.Issue, error)
	UpdateIssue(ctx context.Context, issueID string, update *linear.IssueUpdate) (*linear.Issue, error)
	ListLabels(ctx context.Context, teamID string) ([]linear.Label, error)
	CreateLabel(ctx context.Context, teamID, name, color string) (*linear.Label, error)
	SearchUsers(ctx context.Context, text string) ([]linear.User, error)
}

// TaskRef identifies a created or updated tracker task.
type TaskRef struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

// Outcome aggregates the results of mapping one event's suggestions.
type Outcome struct {
	Created []TaskRef `json:"created"`
	Updated []TaskRef `json:"updated"`
	Errors  []string  `json:"errors"`
}

// Mapper applies task suggestions against the tracker.
type Mapper struct {
	client    TrackerClient
	teamID    string
	projectID string
	log       *slog.Logger

	// now is swappable in tests; enrichment embeds a timestamp.
	now func() time.Time
}

// New creates a Mapper for the given team.
func New(client TrackerClient, teamID, projectID string) *Mapper {
	return &Mapper{
		client:    client,
		teamID:    teamID,
		projectID: projectID,
		log:       logging.WithComponent("mapper"),
		now:       time.Now,
	}
}

// Apply processes suggestions strictly sequentially. Sequential processing
// keeps label-creation checks consistent: concurrent misses on the same name
// would create duplicate labels. Each suggestion succeeds or fails
// independently; a failure is appended to Errors and processing continues.
func (m *Mapper) Apply(ctx context.Context, suggestions []analyzer.Suggestion, repoName string) *Outcome {
	outcome := &Outcome{
		Created: []TaskRef{},
		Updated: []TaskRef{},
		Errors:  []string{},
	}

	for _, suggestion := range suggestions {
		if suggestion.Confidence < confidenceThreshold {
			m.log.Debug("Suggestion below confidence threshold, skipping",
				slog.String("title", suggestion.Title),
				slog.Float64("confidence", suggestion.Confidence))
			continue
		}

		if err := m.applyOne(ctx, &suggestion, repoName, outcome); err != nil {
			m.log.Warn("Suggestion failed",
				slog.String("title", suggestion.Title),
				slog.Any("error", err))
			outcome.Errors = append(outcome.Errors, err.Error())
		}
	}

	return outcome
}

func (m *Mapper) applyOne(ctx context.Context, suggestion *analyzer.Suggestion, repoName string, outcome *Outcome) error {
	description := m.EnrichDescription(suggestion, repoName)
	assigneeID := m.resolveAssignee(ctx, suggestion.AssigneeName)
	labelIDs := m.resolveLabels(ctx, suggestion.Labels)

	switch suggestion.Action {
	case analyzer.ActionCreate:
		issue, err := m.client.CreateIssue(ctx, &linear.IssueInput{
			Title:       suggestion.Title,
			Description: description,
			TeamID:      m.teamID,
			Priority:    clampPriority(suggestion.Priority),
			AssigneeID:  assigneeID,
			LabelIDs:    labelIDs,
			ProjectID:   m.projectID,
		})
		if err != nil {
			return fmt.Errorf("create %q: %w", suggestion.Title, err)
		}
		outcome.Created = append(outcome.Created, TaskRef{
			ID:         issue.ID,
			Identifier: issue.Identifier,
			URL:        issue.URL,
		})
		m.log.Info("Created task",
			slog.String("identifier", issue.Identifier),
			slog.String("title", issue.Title))
		return nil

	case analyzer.ActionUpdate:
		if suggestion.ExistingTaskID == "" {
			return fmt.Errorf("update %q: no existing task id", suggestion.Title)
		}
		issue, err := m.client.UpdateIssue(ctx, suggestion.ExistingTaskID, &linear.IssueUpdate{
			Title:       suggestion.Title,
			Description: description,
			Priority:    clampPriority(suggestion.Priority),
			AssigneeID:  assigneeID,
			LabelIDs:    labelIDs,
		})
		if err != nil {
			return fmt.Errorf("update %q: %w", suggestion.Title, err)
		}
		outcome.Updated = append(outcome.Updated, TaskRef{
			ID:         issue.ID,
			Identifier: issue.Identifier,
			URL:        issue.URL,
		})
		m.log.Info("Updated task", slog.String("identifier", issue.Identifier))
		return nil

	default:
		return fmt.Errorf("unknown action %q for %q", suggestion.Action, suggestion.Title)
	}
}

// EnrichDescription appends a traceability trailer to the suggestion body.
// Output is identical across calls with identical input except for the
// timestamp line.
func (m *Mapper) EnrichDescription(suggestion *analyzer.Suggestion, repoName string) string {
	var sb strings.Builder
	sb.WriteString(suggestion.Description)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Repository: %s\n", repoName))
	sb.WriteString(fmt.Sprintf("Reasoning: %s\n", suggestion.Reasoning))
	sb.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", suggestion.Confidence*100))
	if suggestion.EstimateHours > 0 {
		sb.WriteString(fmt.Sprintf("Estimate: %.1fh\n", suggestion.EstimateHours))
	}
	sb.WriteString(fmt.Sprintf("Generated: %s\n", m.now().UTC().Format(time.RFC3339)))
	return sb.String()
}

// resolveAssignee looks up a tracker user by case-insensitive substring
// match on display name. First match wins; no match leaves the task
// unassigned.
func (m *Mapper) resolveAssignee(ctx context.Context, name string) string {
	if name == "" {
		return ""
	}

	users, err := m.client.SearchUsers(ctx, name)
	if err != nil {
		m.log.Warn("User lookup failed, leaving unassigned",
			slog.String("name", name),
			slog.Any("error", err))
		return ""
	}

	lowered := strings.ToLower(name)
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.DisplayName), lowered) ||
			strings.Contains(strings.ToLower(user.Name), lowered) {
			return user.ID
		}
	}

	m.log.Debug("No user matched assignee name", slog.String("name", name))
	return ""
}

// resolveLabels maps label names to IDs, creating missing labels with a
// palette color. A failed label is dropped, never fatal to the suggestion.
func (m *Mapper) resolveLabels(ctx context.Context, names []string) []string {
	if len(names) == 0 {
		return nil
	}

	existing, err := m.client.ListLabels(ctx, m.teamID)
	if err != nil {
		m.log.Warn("Label listing failed, dropping labels", slog.Any("error", err))
		return nil
	}

	var ids []string
	for _, name := range names {
		if id := matchLabel(existing, name, false); id != "" {
			ids = append(ids, id)
			continue
		}

		label, err := m.client.CreateLabel(ctx, m.teamID, name, randomLabelColor())
		if err == nil {
			ids = append(ids, label.ID)
			existing = append(existing, *label)
			continue
		}

		// Creation can race a label that exists under a variant name
		// (Linear rejects duplicates). Re-list and retry with a loose match
		// before giving up on this one label.
		if relisted, listErr := m.client.ListLabels(ctx, m.teamID); listErr == nil {
			existing = relisted
			if id := matchLabel(existing, name, true); id != "" {
				ids = append(ids, id)
				continue
			}
		}

		m.log.Warn("Label creation failed, dropping label",
			slog.String("label", name),
			slog.Any("error", err))
	}

	return ids
}

// matchLabel finds a label by case-insensitive name. With loose set, a
// substring match in either direction also counts.
func matchLabel(labels []linear.Label, name string, loose bool) string {
	lowered := strings.ToLower(name)
	for _, label := range labels {
		candidate := strings.ToLower(label.Name)
		if candidate == lowered {
			return label.ID
		}
		if loose && (strings.Contains(candidate, lowered) || strings.Contains(lowered, candidate)) {
			return label.ID
		}
	}
	return ""
}

// randomLabelColor picks a palette color for a new label.
func randomLabelColor() string {
	return labelPalette[rand.Intn(len(labelPalette))]
}

// clampPriority bounds a suggested priority to Linear's 1..4 range.
func clampPriority(priority int) int {
	if priority < linear.PriorityUrgent {
		return linear.PriorityMedium
	}
	if priority > linear.PriorityLow {
		return linear.PriorityLow
	}
	return priority
}
