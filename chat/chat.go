// Package chat is the boundary to the hosted chat backend. The server never
// relays messages itself, it only mints user tokens, mirrors provisioned
// users into the chat service and reads unread counters.
package chat

import (
	"context"
	"os"
	"time"

	stream "github.com/GetStream/stream-chat-go/v6"
)

// UserInfo is the subset of a local user the chat backend needs to know.
type UserInfo struct {
	Id          string
	DisplayName string
	AvatarUrl   string
}

type Service interface {
	// CreateToken mints a client-side token for the given user.
	CreateToken(userId string, expiration time.Time, issuedAt time.Time) (string, error)
	// UpsertUser mirrors the user into the chat backend.
	UpsertUser(ctx context.Context, user *UserInfo) error
	// TotalUnreadCount returns the user's unread message count across all
	// channels.
	TotalUnreadCount(ctx context.Context, userId string) (int, error)
}

type streamService struct {
	client *stream.Client
}

// NewStreamService builds the production Service from STREAM_API_KEY and
// STREAM_API_SECRET.
func NewStreamService() (Service, error) {
	client, err := stream.NewClient(os.Getenv("STREAM_API_KEY"), os.Getenv("STREAM_API_SECRET"))
	if err != nil {
		return nil, err
	}
	return &streamService{client: client}, nil
}

func (s *streamService) CreateToken(userId string, expiration time.Time, issuedAt time.Time) (string, error) {
	return s.client.CreateToken(userId, expiration, issuedAt)
}

func (s *streamService) UpsertUser(ctx context.Context, user *UserInfo) error {
	_, err := s.client.UpsertUser(ctx, &stream.User{
		ID:    user.Id,
		Name:  user.DisplayName,
		Image: user.AvatarUrl,
	})
	return err
}

func (s *streamService) TotalUnreadCount(ctx context.Context, userId string) (int, error) {
	resp, err := s.client.UnreadCounts(ctx, userId)
	if err != nil {
		return 0, err
	}
	return resp.TotalUnreadCount, nil
}
