package notification

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ChannelForUser is the pub/sub channel a user's notifications are published on.
func ChannelForUser(userID string) string {
	return "notifications:user:" + userID
}

// Stream fans notifications out to live subscribers.
type Stream interface {
	Publish(ctx context.Context, userID string, payload []byte) error
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error)
}

// ===========================
// 🔴 Redis pub/sub
type RedisStream struct {
	client redis.UniversalClient
}

func NewRedisStream(client redis.UniversalClient) *RedisStream {
	return &RedisStream{client: client}
}

func (s *RedisStream) Publish(ctx context.Context, userID string, payload []byte) error {
	return s.client.Publish(ctx, ChannelForUser(userID), string(payload)).Err()
}

func (s *RedisStream) Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	sub := s.client.Subscribe(ctx, ChannelForUser(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan []byte)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel, nil
}

// ===========================
// 🏠 In-process fan-out, used when Redis is not configured
type LocalStream struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan []byte
}

func NewLocalStream() *LocalStream {
	return &LocalStream{subs: make(map[string]map[int]chan []byte)}
}

// Publish drops the payload for subscribers whose buffer is full.
func (s *LocalStream) Publish(_ context.Context, userID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[userID] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (s *LocalStream) Subscribe(_ context.Context, userID string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan []byte, 16)
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[int]chan []byte)
	}
	s.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[userID], id)
			close(ch)
		})
	}
	return ch, cancel, nil
}

func (s *LocalStream) subscribers(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[userID])
}
