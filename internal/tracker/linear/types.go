package linear

// Config holds Linear tracker configuration.
type Config struct {
	APIKey    string `yaml:"api_key"`
	TeamID    string `yaml:"team_id"`
	ProjectID string `yaml:"project_id"`
}

// Priority levels
const (
	PriorityNone   = 0
	PriorityUrgent = 1
	PriorityHigh   = 2
	PriorityMedium = 3
	PriorityLow    = 4
)

// PriorityName returns the human-readable priority name
func PriorityName(priority int) string {
	switch priority {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "No Priority"
	}
}

// Issue represents a Linear issue
type Issue struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	State       State  `json:"state"`
	URL         string `json:"url"`
}

// State represents an issue state
type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Label represents a Linear label
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User represents a Linear user
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// IssueInput holds the fields for creating an issue.
type IssueInput struct {
	Title       string
	Description string
	TeamID      string
	Priority    int
	AssigneeID  string
	LabelIDs    []string
	ProjectID   string
}

// IssueUpdate holds the fields for a partial issue update. Zero values
// are omitted from the mutation.
type IssueUpdate struct {
	Title       string
	Description string
	Priority    int
	AssigneeID  string
	LabelIDs    []string
}
