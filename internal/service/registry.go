package service

import (
	"context"
	"errors"
	"sync"
)

const DefaultBacklog = 100

// ErrSubscriptionClosed 訂閱已從 registry 移除
var ErrSubscriptionClosed = errors.New("subscription closed")

// Subscription 單一 websocket 連線在某個用戶頻道上的接收端
// 佇列有上限，滿了就丟掉最舊的一則
type Subscription struct {
	userID  string
	backlog int

	mu      sync.Mutex
	queue   []string
	dropped int

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(userID string, backlog int) *Subscription {
	return &Subscription{
		userID:  userID,
		backlog: backlog,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *Subscription) UserID() string {
	return s.userID
}

// next 等待下一則訊息，已排入的訊息會先送完才回報關閉
func (s *Subscription) next(ctx context.Context) (string, error) {
	for {
		if payload, ok := s.TryNext(); ok {
			return payload, nil
		}
		select {
		case <-s.notify:
		case <-s.done:
			if payload, ok := s.TryNext(); ok {
				return payload, nil
			}
			return "", ErrSubscriptionClosed
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// TryNext 取出一則已排入的訊息，不等待
func (s *Subscription) TryNext() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return "", false
	}
	payload := s.queue[0]
	s.queue[0] = ""
	s.queue = s.queue[1:]
	return payload, true
}

// Ready 有新訊息排入時會收到通知
func (s *Subscription) Ready() <-chan struct{} {
	return s.notify
}

// Dropped 因佇列已滿而被丟棄的訊息數
func (s *Subscription) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Done 訂閱關閉時會被關閉
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) push(payload string) {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	if len(s.queue) >= s.backlog {
		s.queue[0] = ""
		s.queue = s.queue[1:]
		s.dropped++
	}
	s.queue = append(s.queue, payload)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// RegistryOptions 連線註冊表設定
type RegistryOptions struct {
	// Backlog 每個訂閱者的佇列上限
	Backlog int
	// RemoveOnAnyDisconnect 為 true 時，同一用戶任一連線結束就移除整個項目
	RemoveOnAnyDisconnect bool
}

// Registry 用戶 id 對應到目前在線的頻道
// 所有 map 操作都在同一把鎖內完成，送訊息與關閉訂閱都在鎖外
type Registry struct {
	mu      sync.Mutex
	entries map[string]map[*Subscription]struct{}

	backlog               int
	removeOnAnyDisconnect bool
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Backlog <= 0 {
		opts.Backlog = DefaultBacklog
	}
	return &Registry{
		entries:               make(map[string]map[*Subscription]struct{}),
		backlog:               opts.Backlog,
		removeOnAnyDisconnect: opts.RemoveOnAnyDisconnect,
	}
}

// Connect 取得或建立用戶的頻道，回傳新的訂閱
func (r *Registry) Connect(userID string) *Subscription {
	sub := newSubscription(userID, r.backlog)

	r.mu.Lock()
	subs, ok := r.entries[userID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		r.entries[userID] = subs
	}
	subs[sub] = struct{}{}
	r.mu.Unlock()

	return sub
}

// Deliver 用戶在線時送出訊息，不在線則直接丟棄；不會阻塞
func (r *Registry) Deliver(userID, payload string) bool {
	r.mu.Lock()
	subs, ok := r.entries[userID]
	targets := make([]*Subscription, 0, len(subs))
	for sub := range subs {
		targets = append(targets, sub)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	for _, sub := range targets {
		sub.push(payload)
	}
	return true
}

// Leave 連線結束時呼叫
func (r *Registry) Leave(sub *Subscription) {
	r.mu.Lock()
	if r.removeOnAnyDisconnect {
		delete(r.entries, sub.userID)
	} else if subs, ok := r.entries[sub.userID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(r.entries, sub.userID)
		}
	}
	r.mu.Unlock()

	sub.close()
}

// Disconnect 無條件移除用戶的項目並關閉所有訂閱，回傳關閉的數量
func (r *Registry) Disconnect(userID string) int {
	r.mu.Lock()
	subs := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	for sub := range subs {
		sub.close()
	}
	return len(subs)
}

// Online 用戶目前是否有註冊項目
func (r *Registry) Online(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[userID]
	return ok
}

// sessions 用戶目前的訂閱數
func (r *Registry) sessions(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[userID])
}
