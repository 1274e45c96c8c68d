package binder

import "errors"

var (
	// ErrDeviceUnknown はデバイスパスの対応が無いIDを接続しようとした場合のエラー
	ErrDeviceUnknown = errors.New("binder: unknown device")

	// ErrProbeFailed はデバイスの確認に失敗した場合のエラー
	ErrProbeFailed = errors.New("binder: device probe failed")

	// ErrNotConnected はMQTTブローカーに接続していない場合のエラー
	ErrNotConnected = errors.New("binder: not connected to broker")

	// ErrConnectionFailed はMQTTブローカーへの初回接続に失敗した場合のエラー
	ErrConnectionFailed = errors.New("binder: broker connection failed")

	// ErrPublishFailed はメッセージの送信に失敗した場合のエラー
	ErrPublishFailed = errors.New("binder: publish failed")
)
