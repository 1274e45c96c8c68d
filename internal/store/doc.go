// Package store はカメラの表示名を永続化するNameStore実装を提供する
//
// # 責務
// - デバイスIDごとのユーザー指定名の保存・取得・削除
// - 接頭辞付きのキー（"camera_name_<id>"）でのみ保存し、他のスキーマは持たない
//
// # 使い分け
// - SQLite: 再起動後も名前を保持したい場合（github.com/mattn/go-sqlite3）
// - Memory: テストや書き込み可能な領域が無いホスト
//
// # 仕様
// - 与えられた文字列はそのまま保存する
// - 空文字や既定名と同じ名前を捨てる方針は呼び出し側（camera.Catalog.SaveName）が持つ
// - Close後の操作は ErrClosed を返す
package store
