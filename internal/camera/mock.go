package camera

import (
	"context"
	"sync"
)

// MockSource はテスト用のDeviceSource実装
type MockSource struct {
	kind Source

	mu      sync.Mutex
	records []DeviceRecord
	err     error
	calls   int
}

// NewMockSource は新しいMockSourceを作成する
func NewMockSource(kind Source, records ...DeviceRecord) *MockSource {
	return &MockSource{
		kind:    kind,
		records: records,
	}
}

// Kind はソースの種類を返す
func (m *MockSource) Kind() Source {
	return m.kind
}

// Enumerate はモックのレコードのコピーを返す
func (m *MockSource) Enumerate(_ context.Context) ([]DeviceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]DeviceRecord(nil), m.records...), nil
}

// SetRecords はテスト用にレコードを差し替える
func (m *MockSource) SetRecords(records ...DeviceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetError はテスト用に列挙の失敗を設定する。nilで解除
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls はEnumerateが呼ばれた回数を返す
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// BindCall はMockBinderが受けた呼び出し
type BindCall struct {
	DeviceID string
	Facing   Facing
}

// MockBinder はテスト用のBinder実装
type MockBinder struct {
	mu    sync.Mutex
	calls []BindCall
	fail  map[string]error
}

// NewMockBinder は新しいMockBinderを作成する
func NewMockBinder() *MockBinder {
	return &MockBinder{fail: make(map[string]error)}
}

// Bind は呼び出しを記録し、設定されていればエラーを返す
func (m *MockBinder) Bind(_ context.Context, deviceID string, facing Facing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, BindCall{DeviceID: deviceID, Facing: facing})
	return m.fail[deviceID]
}

// SetShouldFail はテスト用にdeviceIDの接続失敗を設定する。nilで解除
func (m *MockBinder) SetShouldFail(deviceID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.fail, deviceID)
		return
	}
	m.fail[deviceID] = err
}

// Calls は記録された呼び出しのコピーを返す
func (m *MockBinder) Calls() []BindCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BindCall(nil), m.calls...)
}
