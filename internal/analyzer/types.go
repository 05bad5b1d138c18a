package analyzer

import "time"

// Action is the operation an LLM suggestion asks for.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Suggestion is one LLM-proposed task operation. It is consumed exactly
// once by the mapper and never persisted.
type Suggestion struct {
	Action         Action   `json:"action"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       int      `json:"priority"` // 1 (urgent) .. 4 (low)
	Labels         []string `json:"labels"`
	AssigneeName   string   `json:"assigneeName,omitempty"`
	EstimateHours  float64  `json:"estimateHours,omitempty"`
	ExistingTaskID string   `json:"existingTaskId,omitempty"`
	Reasoning      string   `json:"reasoning"`
	Confidence     float64  `json:"confidence"` // 0.0 .. 1.0
}

// Result is the validated output of one analysis call.
type Result struct {
	Summary           string       `json:"summary"`
	Suggestions       []Suggestion `json:"suggestions"`
	ShouldCreateTasks bool         `json:"shouldCreateTasks"`
	Metadata          Metadata     `json:"metadata"`
}

// Metadata records where a result came from.
type Metadata struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Model       string    `json:"model"`
	Provider    string    `json:"provider"`
	TotalTokens int       `json:"totalTokens,omitempty"`
}

// ExistingTask is a read-only snapshot of a tracker task, used only as
// analysis context.
type ExistingTask struct {
	ID          string
	Identifier  string
	Title       string
	Description string
	State       string
	URL         string
}
