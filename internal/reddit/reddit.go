// Package reddit adapts go-reddit to the monitor.Forum interface.
package reddit

import (
	"context"
	"fmt"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/vincentbai/subwatch/internal/config"
	"github.com/vincentbai/subwatch/internal/monitor"
)

type Forum struct {
	client *reddit.Client
}

func NewForum(cfg config.RedditConfig, opts ...reddit.Opt) (*Forum, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("reddit client id and secret are required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("reddit username and password are required to post replies")
	}
	credentials := reddit.Credentials{
		ID:       cfg.ClientID,
		Secret:   cfg.ClientSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.UserAgent != "" {
		opts = append([]reddit.Opt{reddit.WithUserAgent(cfg.UserAgent)}, opts...)
	}
	client, err := reddit.NewClient(credentials, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit client: %w", err)
	}
	return &Forum{client: client}, nil
}

func (f *Forum) NewPosts(ctx context.Context, subreddit string, limit int) ([]monitor.Post, error) {
	posts, _, err := f.client.Subreddit.NewPosts(ctx, subreddit, &reddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list new posts in r/%s: %w", subreddit, err)
	}
	return toPosts(posts), nil
}

func (f *Forum) Reply(ctx context.Context, post monitor.Post, text string) error {
	if _, _, err := f.client.Comment.Submit(ctx, fullID(post), text); err != nil {
		return fmt.Errorf("failed to reply to %s: %w", post.ID, err)
	}
	return nil
}

func toPosts(posts []*reddit.Post) []monitor.Post {
	result := make([]monitor.Post, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		result = append(result, monitor.Post{
			ID:      post.ID,
			FullID:  post.FullID,
			Title:   post.Title,
			Content: post.Body,
		})
	}
	return result
}

// fullID returns the "t3_" thing name that comment submission expects.
func fullID(post monitor.Post) string {
	if post.FullID != "" {
		return post.FullID
	}
	if strings.HasPrefix(post.ID, "t3_") {
		return post.ID
	}
	return "t3_" + post.ID
}
