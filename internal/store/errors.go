package store

import "errors"

var (
	// ErrClosed はClose後に操作された場合のエラー
	ErrClosed = errors.New("store: closed")

	// ErrEmptyID はデバイスIDが空の場合のエラー
	ErrEmptyID = errors.New("store: device id cannot be empty")
)

// KeyPrefix は保存キーの接頭辞
const KeyPrefix = "camera_name_"

// Key はデバイスIDから保存キーを作る
func Key(id string) string {
	return KeyPrefix + id
}
