// Package client is the Go API client for the social backend. Toggle-style
// engagement calls (like, bookmark, follow) go through an optimistic local
// cache: the UI-facing state flips before the request completes and rolls
// back if the server rejects it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// Engagement holds the optimistic like/bookmark/follow state keyed per
	// entity.
	Engagement *EngagementCache
}

func New(baseURL string, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		Engagement: NewEngagementCache(),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do issues one JSON round trip. Non-2xx responses are returned as errors
// carrying the server's error string.
func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var payload *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(payload).Encode(body); err != nil {
			return errors.Wrap(err, "fail to encode request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var serverErr errorBody
		json.NewDecoder(resp.Body).Decode(&serverErr)
		if serverErr.Error == "" {
			serverErr.Error = resp.Status
		}
		return fmt.Errorf("server rejected %s %s: %s", method, path, serverErr.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByUser"`
}

type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByUser"`
}

type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByUser"`
}

func likeKey(postId string) string     { return "like:" + postId }
func bookmarkKey(postId string) string { return "bookmark:" + postId }
func followKey(userId string) string   { return "follow:" + userId }

// GetLikeInfo fetches server-side like state and primes the cache.
func (c *Client) GetLikeInfo(ctx context.Context, postId string) (State, error) {
	var info LikeInfo
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postId+"/likes", nil, &info); err != nil {
		return State{}, err
	}
	state := State{Count: info.Likes, Active: info.IsLikedByUser}
	c.Engagement.Set(likeKey(postId), state)
	return state, nil
}

// Like optimistically flips the like state, then commits it to the server.
func (c *Client) Like(ctx context.Context, postId string) error {
	return c.Engagement.Mutate(likeKey(postId),
		func(prev State) State {
			if prev.Active {
				return prev
			}
			return State{Count: prev.Count + 1, Active: true}
		},
		func() error {
			return c.do(ctx, http.MethodPost, "/api/posts/"+postId+"/likes", nil, nil)
		})
}

func (c *Client) Unlike(ctx context.Context, postId string) error {
	return c.Engagement.Mutate(likeKey(postId),
		func(prev State) State {
			if !prev.Active {
				return prev
			}
			return State{Count: prev.Count - 1, Active: false}
		},
		func() error {
			return c.do(ctx, http.MethodDelete, "/api/posts/"+postId+"/likes", nil, nil)
		})
}

func (c *Client) GetBookmarkInfo(ctx context.Context, postId string) (State, error) {
	var info BookmarkInfo
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postId+"/bookmark", nil, &info); err != nil {
		return State{}, err
	}
	state := State{Active: info.IsBookmarkedByUser}
	c.Engagement.Set(bookmarkKey(postId), state)
	return state, nil
}

func (c *Client) Bookmark(ctx context.Context, postId string) error {
	return c.Engagement.Mutate(bookmarkKey(postId),
		func(prev State) State { return State{Active: true} },
		func() error {
			return c.do(ctx, http.MethodPost, "/api/posts/"+postId+"/bookmark", nil, nil)
		})
}

func (c *Client) Unbookmark(ctx context.Context, postId string) error {
	return c.Engagement.Mutate(bookmarkKey(postId),
		func(prev State) State { return State{Active: false} },
		func() error {
			return c.do(ctx, http.MethodDelete, "/api/posts/"+postId+"/bookmark", nil, nil)
		})
}

func (c *Client) GetFollowerInfo(ctx context.Context, userId string) (State, error) {
	var info FollowerInfo
	if err := c.do(ctx, http.MethodGet, "/api/users/"+userId+"/followers", nil, &info); err != nil {
		return State{}, err
	}
	state := State{Count: info.Followers, Active: info.IsFollowedByUser}
	c.Engagement.Set(followKey(userId), state)
	return state, nil
}

func (c *Client) Follow(ctx context.Context, userId string) error {
	return c.Engagement.Mutate(followKey(userId),
		func(prev State) State {
			if prev.Active {
				return prev
			}
			return State{Count: prev.Count + 1, Active: true}
		},
		func() error {
			return c.do(ctx, http.MethodPost, "/api/users/"+userId+"/followers", nil, nil)
		})
}

func (c *Client) Unfollow(ctx context.Context, userId string) error {
	return c.Engagement.Mutate(followKey(userId),
		func(prev State) State {
			if !prev.Active {
				return prev
			}
			return State{Count: prev.Count - 1, Active: false}
		},
		func() error {
			return c.do(ctx, http.MethodDelete, "/api/users/"+userId+"/followers", nil, nil)
		})
}

// WaitForProvisioned polls for the local user row after signup, bounded. The
// identity provider's webhook races the client's first authenticated request,
// so the frontend waits for provisioning to land instead of failing the
// session outright.
func (c *Client) WaitForProvisioned(ctx context.Context, userId string, attempts int, interval time.Duration) (bool, error) {
	for i := 0; i < attempts; i++ {
		err := c.do(ctx, http.MethodGet, "/api/users/"+userId, nil, nil)
		if err == nil {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
	return false, nil
}
