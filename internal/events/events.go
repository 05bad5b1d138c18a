// Package events normalizes raw GitHub webhook payloads into internal
// event records consumed by the analysis pipeline.
package events

// Kind identifies the normalized event kind.
type Kind string

const (
	KindPush        Kind = "push"
	KindPullRequest Kind = "pull_request"
)

// Repository identifies the repository an event belongs to.
type Repository struct {
	FullName    string
	Description string
}

// Commit is one commit from a push event.
type Commit struct {
	Message       string
	AuthorName    string
	FilesAdded    []string
	FilesRemoved  []string
	FilesModified []string
}

// PullRequest is the pull request object from a pull_request event.
type PullRequest struct {
	Number      int
	Title       string
	Body        string
	AuthorLogin string
	HeadRef     string
	BaseRef     string
	State       string
}

// Event is a normalized webhook event. It is created per delivery,
// never mutated, and discarded after the pipeline run completes.
type Event struct {
	Kind        Kind
	Repository  Repository
	Commits     []Commit
	PullRequest *PullRequest
}
