package chat

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// FakeService records calls in memory, for tests. Setting FailUpserts makes
// the next N UpsertUser calls fail, to exercise retry paths.
type FakeService struct {
	mu          sync.Mutex
	Upserted    []UserInfo
	UnreadCount int
	FailUpserts int
}

func NewFakeService() *FakeService {
	return &FakeService{}
}

func (f *FakeService) CreateToken(userId string, expiration time.Time, issuedAt time.Time) (string, error) {
	return "fake-token-" + userId, nil
}

func (f *FakeService) UpsertUser(ctx context.Context, user *UserInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpserts > 0 {
		f.FailUpserts--
		return errors.New("chat backend unavailable")
	}
	f.Upserted = append(f.Upserted, *user)
	return nil
}

func (f *FakeService) TotalUnreadCount(ctx context.Context, userId string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.UnreadCount, nil
}
