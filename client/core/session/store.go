package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/suiticket/v1/client/core/config"
	eventbus "github.com/suiticket/v1/internal/core/infrastructure/event"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/event"
)

const sessionFile = "session.json"

// Store 持久化的会话选择
//
// 这是进程内唯一的可变共享状态：连接/切换时设置，断开时清空，
// 重启后从文件恢复。每次变更都会发布 session:changed 事件，参数为新的 Context。
type Store struct {
	path    string
	bus     event.EventBus
	mu      sync.RWMutex
	current Context
}

// NewStore 从 dir 下的会话文件加载状态，文件不存在时使用 fallback 网络
func NewStore(dir string, fallback config.Environment, bus event.EventBus) (*Store, error) {
	s := &Store{
		path:    filepath.Join(dir, sessionFile),
		bus:     bus,
		current: Context{Env: fallback},
	}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var saved Context
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if saved.Env != "" {
		env, err := config.ParseEnvironment(string(saved.Env))
		if err != nil {
			return nil, fmt.Errorf("session file: %w", err)
		}
		saved.Env = env
	} else {
		saved.Env = fallback
	}
	s.current = New(saved.Env, saved.Account)
	return s, nil
}

// Current 返回当前会话快照
func (s *Store) Current() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Connect 选择账户
func (s *Store) Connect(account string) (Context, error) {
	if _, err := config.ParseAddress(account); err != nil {
		return Context{}, err
	}
	return s.update(func(c Context) Context { return c.WithAccount(account) })
}

// Switch 切换网络，账户保持不变
func (s *Store) Switch(env config.Environment) (Context, error) {
	if _, err := config.ParseEnvironment(string(env)); err != nil {
		return Context{}, err
	}
	return s.update(func(c Context) Context { return c.WithEnv(env) })
}

// Disconnect 清除账户选择，网络保持不变
func (s *Store) Disconnect() (Context, error) {
	return s.update(func(c Context) Context { return Context{Env: c.Env} })
}

func (s *Store) update(change func(Context) Context) (Context, error) {
	s.mu.Lock()
	next := change(s.current)
	if err := s.save(next); err != nil {
		s.mu.Unlock()
		return Context{}, err
	}
	s.current = next
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(eventbus.EventSessionChanged, next)
	}
	return next, nil
}

func (s *Store) save(c Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
