package store

import (
	"context"
	"strings"
	"sync"
)

// Memory はプロセス内のみで保持するNameStore
//
// 全てのメソッドは並行に呼び出してよい。
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string // Key(id) をキーとする
}

// NewMemory は空のMemoryを作成する
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Lookup はidに保存された名前を返す
func (m *Memory) Lookup(_ context.Context, id string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name, ok := m.entries[Key(id)]
	return name, ok, nil
}

// Set はidの名前を保存する（既存の値は上書き）
func (m *Memory) Set(_ context.Context, id, name string) error {
	if id == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(id)] = name
	return nil
}

// Remove はidの名前を削除する。存在しなくてもエラーにしない
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, Key(id))
	return nil
}

// Clear は全ての名前を削除する
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]string)
	return nil
}

// All はデバイスIDをキーとした全ての名前のコピーを返す
func (m *Memory) All(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.entries))
	for key, name := range m.entries {
		out[strings.TrimPrefix(key, KeyPrefix)] = name
	}
	return out, nil
}
