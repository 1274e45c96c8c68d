package camera

import (
	"fmt"
	"sort"
)

// SourceConfig はソース作成設定
type SourceConfig struct {
	Lenses         []DeviceRecord // 内蔵レンズの宣言（BuiltIn）
	ExcludeDevices []string       // USBとして扱わないデバイスパス
}

// SourceCreator はソース作成関数の型
type SourceCreator func(config SourceConfig) (DeviceSource, error)

// SourceFactory はソースの種類ごとに作成関数を保持する
type SourceFactory struct {
	creators map[Source]SourceCreator
}

// NewSourceFactory は標準のソースを登録したファクトリーを作成する
func NewSourceFactory() *SourceFactory {
	factory := &SourceFactory{
		creators: make(map[Source]SourceCreator),
	}

	factory.Register(SourceBuiltIn, newBuiltInSourceFromConfig)
	factory.Register(SourceUSB, func(config SourceConfig) (DeviceSource, error) {
		return NewV4L2Source(config.ExcludeDevices...), nil
	})
	factory.Register(SourceBluetooth, func(SourceConfig) (DeviceSource, error) {
		return NewBlueZSource(), nil
	})

	return factory
}

// Register はソース作成関数を登録する（同じ種類は上書き）
func (f *SourceFactory) Register(kind Source, creator SourceCreator) {
	f.creators[kind] = creator
}

// CreateSource はソースを作成する
func (f *SourceFactory) CreateSource(kind Source, config SourceConfig) (DeviceSource, error) {
	creator, exists := f.creators[kind]
	if !exists {
		return nil, fmt.Errorf("サポートされていないソースタイプ: %s", kind)
	}

	return creator(config)
}

// SupportedKinds は登録済みの種類をカタログの並び順で返す
func (f *SourceFactory) SupportedKinds() []Source {
	kinds := make([]Source, 0, len(f.creators))
	for kind := range f.creators {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if sourceRank(kinds[i]) != sourceRank(kinds[j]) {
			return sourceRank(kinds[i]) < sourceRank(kinds[j])
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// newBuiltInSourceFromConfig は宣言された内蔵レンズからソースを作成する
func newBuiltInSourceFromConfig(config SourceConfig) (DeviceSource, error) {
	seen := make(map[string]struct{}, len(config.Lenses))
	for _, lens := range config.Lenses {
		if lens.ID == "" {
			return nil, fmt.Errorf("内蔵レンズにIDが必要です")
		}
		if _, dup := seen[lens.ID]; dup {
			return nil, fmt.Errorf("内蔵レンズのIDが重複しています: %s", lens.ID)
		}
		seen[lens.ID] = struct{}{}
	}
	return NewStaticSource(SourceBuiltIn, config.Lenses), nil
}
