// Package orchestrator sequences one webhook delivery through the
// pipeline: normalize, gather context, analyze, and apply suggestions.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/events"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/mapper"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

// existingTaskLimit bounds how many existing tasks are fetched as context.
const existingTaskLimit = 25

// Analyzer generates task suggestions from a prompt.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*analyzer.Result, error)
	Configured() bool
}

// Tracker is the search surface the orchestrator needs from Linear.
type Tracker interface {
	SearchIssues(ctx context.Context, teamID, text string, limit int) ([]*linear.Issue, error)
}

// SuggestionMapper applies suggestions against the tracker.
type SuggestionMapper interface {
	Apply(ctx context.Context, suggestions []analyzer.Suggestion, repoName string) *mapper.Outcome
}

// Orchestrator drives one event end-to-end. It holds no per-event state;
// every invocation is independent.
type Orchestrator struct {
	analyzer           Analyzer
	tracker            Tracker
	mapper             SuggestionMapper
	teamID             string
	projectDescription string
	log                *slog.Logger
}

// New creates an Orchestrator.
func New(a Analyzer, tracker Tracker, m SuggestionMapper, teamID, projectDescription string) *Orchestrator {
	return &Orchestrator{
		analyzer:           a,
		tracker:            tracker,
		mapper:             m,
		teamID:             teamID,
		projectDescription: projectDescription,
		log:                logging.WithComponent("orchestrator"),
	}
}

// ProcessEvent runs the full pipeline for one webhook delivery. A nil
// Outcome with a nil error means the event was filtered or needed no
// tracker activity.
func (o *Orchestrator) ProcessEvent(ctx context.Context, eventType string, payload map[string]any) (*mapper.Outcome, error) {
	event, err := events.Normalize(eventType, payload)
	if err != nil {
		return nil, err
	}
	if event == nil {
		o.log.Debug("Event filtered", slog.String("event_type", eventType))
		return nil, nil
	}

	existing := o.fetchExistingTasks(ctx, event.Repository.FullName)

	prompt := analyzer.BuildPrompt(event, existing, o.projectDescription)

	result, err := o.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if !result.ShouldCreateTasks || len(result.Suggestions) == 0 {
		o.log.Info("No tracker activity needed",
			slog.String("repo", event.Repository.FullName),
			slog.String("summary", result.Summary))
		return nil, nil
	}

	outcome := o.mapper.Apply(ctx, result.Suggestions, event.Repository.FullName)

	o.log.Info("Event processed",
		slog.String("repo", event.Repository.FullName),
		slog.Int("created", len(outcome.Created)),
		slog.Int("updated", len(outcome.Updated)),
		slog.Int("errors", len(outcome.Errors)))

	return outcome, nil
}

// fetchExistingTasks loads tracker context for the repository. A fetch
// failure degrades to an empty list so analysis still proceeds, just
// without historical grounding.
func (o *Orchestrator) fetchExistingTasks(ctx context.Context, repoName string) []analyzer.ExistingTask {
	issues, err := o.tracker.SearchIssues(ctx, o.teamID, repoName, existingTaskLimit)
	if err != nil {
		o.log.Warn("Existing-task fetch failed, proceeding without context",
			slog.String("repo", repoName),
			slog.Any("error", err))
		return []analyzer.ExistingTask{}
	}

	existing := make([]analyzer.ExistingTask, 0, len(issues))
	for _, issue := range issues {
		existing = append(existing, analyzer.ExistingTask{
			ID:          issue.ID,
			Identifier:  issue.Identifier,
			Title:       issue.Title,
			Description: issue.Description,
			State:       issue.State.Name,
			URL:         issue.URL,
		})
	}
	return existing
}
