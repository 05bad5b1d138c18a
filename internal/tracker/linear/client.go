// Package linear is a minimal Linear GraphQL API client covering the
// operations taskpilot needs: issue create/update/search, team labels,
// and user lookup.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.linear.app/graphql"

// Client is a Linear API client
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a new Linear client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithAPIURL overrides the GraphQL endpoint (used in tests).
func WithAPIURL(url string) ClientOption {
	return func(c *Client) {
		c.apiURL = url
	}
}

// NewClientWithOptions creates a Linear client with options applied.
func NewClientWithOptions(apiKey string, opts ...ClientOption) *Client {
	c := NewClient(apiKey)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

// Execute executes a GraphQL query
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, result any) error {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %s", string(respBody))
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	if result != nil {
		if err := json.Unmarshal(gqlResp.Data, result); err != nil {
			return fmt.Errorf("failed to parse data: %w", err)
		}
	}

	return nil
}

// CreateIssue creates a new issue and returns the created record.
func (c *Client) CreateIssue(ctx context.Context, input *IssueInput) (*Issue, error) {
	mutation := `
		mutation CreateIssue($input: IssueCreateInput!) {
			issueCreate(input: $input) {
				success
				issue {
					id
					identifier
					title
					description
					priority
					state { id name type }
					url
				}
			}
		}
	`

	inputVars := map[string]any{
		"title":       input.Title,
		"description": input.Description,
		"teamId":      input.TeamID,
		"priority":    input.Priority,
	}
	if input.AssigneeID != "" {
		inputVars["assigneeId"] = input.AssigneeID
	}
	if len(input.LabelIDs) > 0 {
		inputVars["labelIds"] = input.LabelIDs
	}
	if input.ProjectID != "" {
		inputVars["projectId"] = input.ProjectID
	}

	var result struct {
		IssueCreate struct {
			Success bool  `json:"success"`
			Issue   Issue `json:"issue"`
		} `json:"issueCreate"`
	}

	if err := c.Execute(ctx, mutation, map[string]any{"input": inputVars}, &result); err != nil {
		return nil, err
	}

	if !result.IssueCreate.Success {
		return nil, fmt.Errorf("issue creation was not successful")
	}

	return &result.IssueCreate.Issue, nil
}

// UpdateIssue applies a partial update to an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, issueID string, update *IssueUpdate) (*Issue, error) {
	mutation := `
		mutation UpdateIssue($id: String!, $input: IssueUpdateInput!) {
			issueUpdate(id: $id, input: $input) {
				success
				issue {
					id
					identifier
					title
					description
					priority
					state { id name type }
					url
				}
			}
		}
	`

	inputVars := map[string]any{}
	if update.Title != "" {
		inputVars["title"] = update.Title
	}
	if update.Description != "" {
		inputVars["description"] = update.Description
	}
	if update.Priority != 0 {
		inputVars["priority"] = update.Priority
	}
	if update.AssigneeID != "" {
		inputVars["assigneeId"] = update.AssigneeID
	}
	if len(update.LabelIDs) > 0 {
		inputVars["labelIds"] = update.LabelIDs
	}

	var result struct {
		IssueUpdate struct {
			Success bool  `json:"success"`
			Issue   Issue `json:"issue"`
		} `json:"issueUpdate"`
	}

	if err := c.Execute(ctx, mutation, map[string]any{
		"id":    issueID,
		"input": inputVars,
	}, &result); err != nil {
		return nil, err
	}

	if !result.IssueUpdate.Success {
		return nil, fmt.Errorf("issue update was not successful")
	}

	return &result.IssueUpdate.Issue, nil
}

// SearchIssues fetches issues for a team whose title or description
// contains the query text.
func (c *Client) SearchIssues(ctx context.Context, teamID, text string, limit int) ([]*Issue, error) {
	query := `
		query SearchIssues($teamId: ID!, $text: String!, $first: Int!) {
			issues(
				filter: {
					team: { id: { eq: $teamId } }
					or: [
						{ title: { containsIgnoreCase: $text } }
						{ description: { containsIgnoreCase: $text } }
					]
				}
				first: $first
				orderBy: updatedAt
			) {
				nodes {
					id
					identifier
					title
					description
					priority
					state { id name type }
					url
				}
			}
		}
	`

	if limit <= 0 {
		limit = 25
	}

	var result struct {
		Issues struct {
			Nodes []*Issue `json:"nodes"`
		} `json:"issues"`
	}

	if err := c.Execute(ctx, query, map[string]any{
		"teamId": teamID,
		"text":   text,
		"first":  limit,
	}, &result); err != nil {
		return nil, err
	}

	return result.Issues.Nodes, nil
}

// ListLabels fetches all labels for a team.
func (c *Client) ListLabels(ctx context.Context, teamID string) ([]Label, error) {
	query := `
		query ListLabels($teamId: ID!) {
			issueLabels(filter: { team: { id: { eq: $teamId } } }, first: 250) {
				nodes { id name }
			}
		}
	`

	var result struct {
		IssueLabels struct {
			Nodes []Label `json:"nodes"`
		} `json:"issueLabels"`
	}

	if err := c.Execute(ctx, query, map[string]any{"teamId": teamID}, &result); err != nil {
		return nil, err
	}

	return result.IssueLabels.Nodes, nil
}

// CreateLabel creates a team label with the given display color.
func (c *Client) CreateLabel(ctx context.Context, teamID, name, color string) (*Label, error) {
	mutation := `
		mutation CreateLabel($input: IssueLabelCreateInput!) {
			issueLabelCreate(input: $input) {
				success
				issueLabel { id name }
			}
		}
	`

	var result struct {
		IssueLabelCreate struct {
			Success    bool  `json:"success"`
			IssueLabel Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}

	if err := c.Execute(ctx, mutation, map[string]any{
		"input": map[string]any{
			"teamId": teamID,
			"name":   name,
			"color":  color,
		},
	}, &result); err != nil {
		return nil, err
	}

	if !result.IssueLabelCreate.Success {
		return nil, fmt.Errorf("label creation was not successful")
	}

	return &result.IssueLabelCreate.IssueLabel, nil
}

// SearchUsers fetches users whose display name contains the query text.
func (c *Client) SearchUsers(ctx context.Context, text string) ([]User, error) {
	query := `
		query SearchUsers($text: String!) {
			users(filter: { displayName: { containsIgnoreCase: $text } }, first: 50) {
				nodes { id name displayName email }
			}
		}
	`

	var result struct {
		Users struct {
			Nodes []User `json:"nodes"`
		} `json:"users"`
	}

	if err := c.Execute(ctx, query, map[string]any{"text": text}, &result); err != nil {
		return nil, err
	}

	return result.Users.Nodes, nil
}
