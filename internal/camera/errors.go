package camera

import (
	"errors"
	"fmt"
)

// 呼び出し側はerrors.Isでこれらを判定する
var (
	// ErrSourceUnavailable はデバイスソースの列挙に失敗したことを表す（非致命的）
	ErrSourceUnavailable = errors.New("camera: source unavailable")

	// ErrEmptyCatalog は全ソースからデバイスが見つからなかったことを表す
	ErrEmptyCatalog = errors.New("camera: no cameras found")

	// ErrNotFound は指定されたデバイスがカタログに無いことを表す
	ErrNotFound = errors.New("camera: device not found")

	// ErrIndexOutOfRange は指定されたインデックスが範囲外であることを表す
	ErrIndexOutOfRange = errors.New("camera: index out of range")

	// ErrUnsupportedSource は選択はできたが接続できないソースであることを表す
	ErrUnsupportedSource = errors.New("camera: source requires special setup")

	// ErrActivationFailed はBinderがデバイスの接続を拒否したことを表す
	ErrActivationFailed = errors.New("camera: activation failed")
)

// SourceError は1つのソースの列挙失敗
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

// Unwrap は原因とErrSourceUnavailableの両方を返す
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

// ActivationError はBinderの失敗。カーソルは対象デバイスを指したまま
type ActivationError struct {
	DeviceID string
	Err      error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activate %s: %v", e.DeviceID, e.Err)
}

// Unwrap は原因とErrActivationFailedの両方を返す
func (e *ActivationError) Unwrap() []error {
	return []error{ErrActivationFailed, e.Err}
}
