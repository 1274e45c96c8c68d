// Package binder はアクティブなカメラを実際の出力先へ接続するBinder実装を提供する
//
// # 責務
// - camera.Selector から渡された内蔵レンズIDを出力先に結び付ける
// - 接続できなかった場合にエラーを返す（カーソルはSelector側で維持される）
//
// # 使い分け
// - V4L2: レンズIDに対応する /dev/videoN を v4l2-ctl で確認して接続先とする
// - MQTT: 接続要求をブローカーへ送り、別プロセスに実際の切り替えを任せる
// - Log: カメラスタックの無い開発用ホスト。ログを出して成功する
//
// # 前提要件
//   - V4L2: v4l2-ctl コマンド（v4l-utils パッケージ）
//   - MQTT: 到達可能なMQTTブローカー
package binder
