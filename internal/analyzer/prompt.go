package analyzer

import (
	"fmt"
	"strings"

	"github.com/taskpilot/taskpilot/internal/events"
)

// maxFilesPerCommit bounds how many file paths per commit appear in the
// prompt so large pushes don't blow the token budget.
const maxFilesPerCommit = 5

// existingTaskDescriptionLimit bounds existing-task descriptions in the prompt.
const existingTaskDescriptionLimit = 100

// BuildPrompt assembles the analysis prompt from a normalized event,
// existing-task context, and an optional project description. It is a pure
// function: identical input yields identical output.
func BuildPrompt(event *events.Event, existing []ExistingTask, projectDescription string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Event: %s\n", event.Kind))
	sb.WriteString(fmt.Sprintf("Repository: %s\n", event.Repository.FullName))
	if event.Repository.Description != "" {
		sb.WriteString(fmt.Sprintf("Repository description: %s\n", event.Repository.Description))
	}
	if projectDescription != "" {
		sb.WriteString(fmt.Sprintf("Project context: %s\n", projectDescription))
	}
	sb.WriteString("\n")

	switch event.Kind {
	case events.KindPush:
		writeCommits(&sb, event.Commits)
	case events.KindPullRequest:
		writePullRequest(&sb, event.PullRequest)
	}

	writeExistingTasks(&sb, existing)

	return sb.String()
}

func writeCommits(sb *strings.Builder, commits []events.Commit) {
	sb.WriteString(fmt.Sprintf("Commits (%d):\n", len(commits)))
	for i, commit := range commits {
		sb.WriteString(fmt.Sprintf("%d. %s (by %s)\n", i+1, commit.Message, commit.AuthorName))
		sb.WriteString(fmt.Sprintf("   files: %d added, %d removed, %d modified\n",
			len(commit.FilesAdded), len(commit.FilesRemoved), len(commit.FilesModified)))
		writeFileList(sb, "added", commit.FilesAdded)
		writeFileList(sb, "modified", commit.FilesModified)
	}
	sb.WriteString("\n")
}

func writeFileList(sb *strings.Builder, kind string, files []string) {
	if len(files) == 0 {
		return
	}
	shown := files
	truncated := false
	if len(shown) > maxFilesPerCommit {
		shown = shown[:maxFilesPerCommit]
		truncated = true
	}
	sb.WriteString(fmt.Sprintf("   %s: %s", kind, strings.Join(shown, ", ")))
	if truncated {
		sb.WriteString(", ...")
	}
	sb.WriteString("\n")
}

func writePullRequest(sb *strings.Builder, pr *events.PullRequest) {
	if pr == nil {
		return
	}
	sb.WriteString(fmt.Sprintf("Pull request #%d: %s\n", pr.Number, pr.Title))
	sb.WriteString(fmt.Sprintf("Author: %s\n", pr.AuthorLogin))
	sb.WriteString(fmt.Sprintf("Branches: %s -> %s\n", pr.HeadRef, pr.BaseRef))
	sb.WriteString(fmt.Sprintf("State: %s\n", pr.State))
	if pr.Body != "" {
		sb.WriteString(fmt.Sprintf("Body:\n%s\n", pr.Body))
	}
	sb.WriteString("\n")
}

func writeExistingTasks(sb *strings.Builder, existing []ExistingTask) {
	if len(existing) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("Existing tasks (%d):\n", len(existing)))
	for _, task := range existing {
		description := task.Description
		if len(description) > existingTaskDescriptionLimit {
			description = description[:existingTaskDescriptionLimit]
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s (%s): %s\n", task.Identifier, task.Title, task.State, description))
	}
	sb.WriteString("\n")
}
