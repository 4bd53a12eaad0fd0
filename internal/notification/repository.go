package notification

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID string, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id, userID string) error

	SaveDeviceToken(ctx context.Context, token *DeviceToken) error
	RemoveDeviceToken(ctx context.Context, userID, token string) error
	GetUserDeviceTokens(ctx context.Context, userIDs ...string) ([]string, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	inApp   []*InAppNotification
	devices map[string]map[string]DeviceToken
}

func NewMemoryRepository() Repository {
	return &memoryRepository{devices: make(map[string]map[string]DeviceToken)}
}

func (r *memoryRepository) CreateInApp(_ context.Context, n *InAppNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *n
	r.inApp = append(r.inApp, &stored)
	return nil
}

// ListInAppByUser returns the newest notifications first.
func (r *memoryRepository) ListInAppByUser(_ context.Context, userID string, limit int) ([]InAppNotification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]InAppNotification, 0)
	for i := len(r.inApp) - 1; i >= 0; i-- {
		n := r.inApp[i]
		if n.UserID != userID {
			continue
		}
		out = append(out, *n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memoryRepository) MarkInAppAsRead(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.inApp {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepository) SaveDeviceToken(_ context.Context, token *DeviceToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.devices[token.UserID] == nil {
		r.devices[token.UserID] = make(map[string]DeviceToken)
	}
	r.devices[token.UserID][token.Token] = *token
	return nil
}

func (r *memoryRepository) RemoveDeviceToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[userID][token]; !ok {
		return ErrNotFound
	}
	delete(r.devices[userID], token)
	return nil
}

func (r *memoryRepository) GetUserDeviceTokens(_ context.Context, userIDs ...string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var tokens []string
	for _, uid := range userIDs {
		for t := range r.devices[uid] {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}
	sort.Strings(tokens)
	return tokens, nil
}
