package models

import "fmt"

// MonitorRequest asks the server to start watching a subreddit.
// Keywords is the raw comma separated string typed into the form.
type MonitorRequest struct {
	SubredditName string `json:"subreddit_name"`
	Keywords      string `json:"keywords"`
}

// Interaction is a stored reply to a forum post.
type Interaction struct {
	PostID   string `json:"post_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Response string `json:"response"`
}

type InteractionsResponse struct {
	Interactions []Interaction `json:"interactions"`
}

// MessageResponse is returned by /monitor and /stop_monitoring.
type MessageResponse struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func ValidateInteraction(interaction Interaction) error {
	if interaction.PostID == "" {
		return fmt.Errorf("post_id cannot be empty")
	}
	if interaction.Response == "" {
		return fmt.Errorf("response cannot be empty")
	}
	return nil
}
