// Package server は、カメラ切り替えのHTTP APIを提供します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// camera.Switcher の操作をJSONで公開することを担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - カメラ一覧・現在のカメラの取得
//   - 前/次/ID/番号/名前によるカメラの切り替え
//   - 表示名の変更と既定名への復帰
//
// 仕様:
//   - ルーティングはgin-gonic/ginを使用し、api/openapi.yamlから生成した
//     generated.ServerInterface を Handler が実装する
//   - リクエストはkin-openapiでOpenAPI定義に対して検証し、不正なら400を返す
//   - 見つからない → 404、範囲外 → 400、カメラが無い → 409、接続失敗 → 502
//   - 内蔵以外のカメラは選択されるが activated:false と警告を返す
//   - グレースフルシャットダウンに対応
package server
