// Package camera カメラデバイスの検出・命名・切り替えを担う
//
// # 責務
// - 内蔵レンズ、USBビデオクラスデバイス、ペアリング済みBluetoothカメラの検出
// - 不完全なメタデータからの既定名の決定（焦点距離・背面レンズの序数）
// - ユーザーが付けた表示名の適用と保存方針
// - アクティブなデバイスを1台に保つカーソル操作（前/次/ID/名前/番号）
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - ホストから見えるカメラを一覧にしたい
// - カメラに分かりやすい名前を付けたい
// - ボタン操作でカメラを順番に切り替えたい
//
// # 仕様
// - Catalog: ソースを並行に問い合わせ、全て揃ってから1つのSnapshotとして公開する
// - Classifier: 規則を上から順に評価し、最初に一致したものを既定名とする
// - Selector: カタログとカーソルを1つのミューテックスで保護する
// - Switcher: 初回検出、定期的な再検出、名前変更後の再検出
// - 内蔵以外のデバイスは選択できるがBinderには渡さない
// - 失敗は全て型付きのエラーとして返し、致命的なものは無い
//
// # 前提要件
//   - USBカメラの検出: /sys/class/video4linux が読めること（Linux）
//   - Bluetoothカメラの検出: BlueZ が動作しシステムバスに接続できること
//     無い場合は0台として扱う
package camera
