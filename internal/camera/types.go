package camera

import (
	"context"
	"time"
)

// Source はデバイスを検出した経路を表す
type Source string

const (
	SourceBuiltIn   Source = "builtin"   // 内蔵レンズ
	SourceUSB       Source = "usb"       // USBビデオクラスデバイス
	SourceBluetooth Source = "bluetooth" // ペアリング済みBluetoothデバイス
)

// Facing は内蔵レンズの向きを表す
type Facing string

const (
	FacingFront   Facing = "front"   // ユーザー側
	FacingBack    Facing = "back"    // 背面
	FacingUnknown Facing = "unknown" // 不明（内蔵以外は常にこれ）
)

// ParseFacing は設定値などの文字列をFacingに変換する
func ParseFacing(s string) (Facing, bool) {
	switch Facing(s) {
	case FacingFront, FacingBack, FacingUnknown:
		return Facing(s), true
	case "":
		return FacingUnknown, true
	default:
		return FacingUnknown, false
	}
}

// DeviceRecord はデバイスソースから得られた生の情報
//
// IDは検出パス内で一意であり、同一プロセス内で別のデバイスを指すことはない。
type DeviceRecord struct {
	ID            string   // ソースごとの名前空間付きID（例: "0", "usb_3", "bt_AA:BB:..."）
	Source        Source   // 検出経路
	Facing        Facing   // 内蔵レンズのみ意味を持つ
	FocalLengthMM *float64 // 背面内蔵レンズでプラットフォームが報告した場合のみ設定
	Label         string   // デバイスが名乗る名前（USBのカード名、Bluetoothの広告名）
	Device        string   // デバイスパス（例: /dev/video0）。無い場合は空
	Capabilities  []int    // 解釈しない付加情報
}

// FocalLength はDeviceRecord.FocalLengthMM用のポインタを返す
func FocalLength(mm float64) *float64 {
	return &mm
}

// ClassifiedDevice は分類済みのデバイス
type ClassifiedDevice struct {
	DeviceRecord
	DefaultName string // 分類ヒューリスティックによる既定名
	DisplayName string // 上書き名があればそれ、無ければDefaultName
}

// Overridden は表示名がユーザーによって上書きされているかを返す
func (d ClassifiedDevice) Overridden() bool {
	return d.DisplayName != d.DefaultName
}

// Snapshot は1回の検出パスの結果
type Snapshot struct {
	PassID       string             // 検出パスの識別子
	Devices      []ClassifiedDevice // BuiltIn → USB → Bluetooth の順
	Warnings     []*SourceError     // 失敗したソース（パス自体は継続）
	DiscoveredAt time.Time
}

// Empty はデバイスが1台も無いかを返す
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Devices) == 0
}

// DeviceSource はデバイスの列挙元
type DeviceSource interface {
	// Kind はこのソースが返すレコードの種類を返す
	Kind() Source

	// Enumerate は現在見えているデバイスを列挙する
	Enumerate(ctx context.Context) ([]DeviceRecord, error)
}

// NameStore はデバイスIDから表示名への永続的な対応表
//
// 渡された文字列をそのまま保存する。冗長な上書きを避ける方針は呼び出し側
// （Catalog）の責務。
type NameStore interface {
	// Lookup は上書き名を返す。未登録ならfalse
	Lookup(ctx context.Context, id string) (string, bool, error)

	// Set は上書き名を保存する
	Set(ctx context.Context, id, name string) error

	// Remove は上書き名を削除する。未登録でもエラーにしない
	Remove(ctx context.Context, id string) error

	// Clear は全ての上書き名を削除する
	Clear(ctx context.Context) error

	// All は保存されている全ての上書き名を返す
	All(ctx context.Context) (map[string]string, error)
}

// Binder は内蔵デバイスを実際の映像パイプラインに接続する外部コラボレーター
type Binder interface {
	Bind(ctx context.Context, deviceID string, facing Facing) error
}

// BinderFunc は関数をBinderとして扱うためのアダプター
type BinderFunc func(ctx context.Context, deviceID string, facing Facing) error

// Bind はf(ctx, deviceID, facing)を呼び出す
func (f BinderFunc) Bind(ctx context.Context, deviceID string, facing Facing) error {
	return f(ctx, deviceID, facing)
}
