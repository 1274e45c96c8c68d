package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// dirPermissions はデータベースディレクトリのパーミッション
	dirPermissions = 0750

	// filePermissions はデータベースファイルのパーミッション
	filePermissions = 0600

	// msPerSecond は秒からミリ秒への変換係数
	msPerSecond = 1000

	// connectionTimeout は接続確認とスキーマ作成のタイムアウト
	connectionTimeout = 5 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY NOT NULL,
	value TEXT NOT NULL
)`

// Config はSQLiteストアの設定
// config.yaml の store セクションに対応する
type Config struct {
	Path string // データベースファイルのパス（ディレクトリが無ければ作成する）

	WALMode bool // WALモードを有効にする

	BusyTimeout int // ロック待ちの最大時間（秒）
}

// SQLite はSQLiteに永続化するNameStore
//
// 書き込みは呼び出しが戻る前にコミットされるため、直後のLookupは必ず新しい値を返す。
// 全てのメソッドは並行に呼び出してよい。
type SQLite struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	closed bool
}

// OpenSQLite はcfg.Pathのデータベースを開き（無ければ作成し）、テーブルを用意する
func OpenSQLite(cfg Config) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("store: データベースのパスが指定されていません")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("データベースディレクトリの作成に失敗: %w", err)
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d", cfg.Path, cfg.BusyTimeout*msPerSecond)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗: %w", err)
	}

	// SQLiteの書き込みは1接続のみ
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースへの接続確認に失敗: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("テーブルの作成に失敗: %w", err)
	}

	_ = os.Chmod(cfg.Path, filePermissions)

	return &SQLite{db: db, path: cfg.Path}, nil
}

// Path はデータベースファイルのパスを返す
func (s *SQLite) Path() string {
	return s.path
}

// Lookup はidに保存された名前を返す
func (s *SQLite) Lookup(ctx context.Context, id string) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}

	var name string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, Key(id)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("名前の取得に失敗 (%s): %w", id, err)
	}
	return name, true, nil
}

// Set はidの名前を保存する（既存の値は上書き）
func (s *SQLite) Set(ctx context.Context, id, name string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		Key(id), name,
	)
	if err != nil {
		return fmt.Errorf("名前の保存に失敗 (%s): %w", id, err)
	}
	return nil
}

// Remove はidの名前を削除する。存在しなくてもエラーにしない
func (s *SQLite) Remove(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, Key(id)); err != nil {
		return fmt.Errorf("名前の削除に失敗 (%s): %w", id, err)
	}
	return nil
}

// Clear は全ての名前を削除する
func (s *SQLite) Clear(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE substr(key, 1, ?) = ?`,
		len(KeyPrefix), KeyPrefix,
	)
	if err != nil {
		return fmt.Errorf("名前の一括削除に失敗: %w", err)
	}
	return nil
}

// All はデバイスIDをキーとした全ての名前を返す
func (s *SQLite) All(ctx context.Context) (map[string]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE substr(key, 1, ?) = ?`,
		len(KeyPrefix), KeyPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("名前一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, name string
		if err := rows.Scan(&key, &name); err != nil {
			return nil, fmt.Errorf("名前の読み取りに失敗: %w", err)
		}
		out[key[len(KeyPrefix):]] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("名前一覧の取得に失敗: %w", err)
	}
	return out, nil
}

// HealthCheck はデータベースにアクセスできるか確認する
func (s *SQLite) HealthCheck(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("データベースのヘルスチェックに失敗: %w", err)
	}
	return nil
}

// Close は接続を閉じる。以降の操作は ErrClosed を返す
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("データベースのクローズに失敗: %w", err)
	}
	return nil
}

func (s *SQLite) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
