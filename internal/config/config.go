package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"camswitch/internal/camera"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Camera  CameraConfig  `yaml:"camera"`
	Store   StoreConfig   `yaml:"store"`
	Binder  BinderConfig  `yaml:"binder"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// CameraConfig はカメラ検出の設定
type CameraConfig struct {
	// 内蔵レンズの一覧（宣言順が列挙順になる）
	Lenses []LensConfig `yaml:"lenses"`

	USB       bool `yaml:"usb"`       // USBビデオクラスデバイスを検出する
	Bluetooth bool `yaml:"bluetooth"` // ペアリング済みBluetoothカメラを検出する

	// 再検出の間隔。0で無効
	ScanInterval time.Duration `yaml:"scan_interval"`
}

// LensConfig は内蔵レンズ1つの宣言
type LensConfig struct {
	ID            string   `yaml:"id"`              // プラットフォームが振るID
	Facing        string   `yaml:"facing"`          // front / back / unknown
	FocalLengthMM *float64 `yaml:"focal_length_mm"` // 分かる場合のみ
	Label         string   `yaml:"label"`
	Device        string   `yaml:"device"` // デバイスパス (例: /dev/video0)
	Capabilities  []int    `yaml:"capabilities"`
}

// StoreConfig は表示名の保存先の設定
type StoreConfig struct {
	Driver      string `yaml:"driver"`       // sqlite / memory
	Path        string `yaml:"path"`         // sqliteのデータベースファイル
	BusyTimeout int    `yaml:"busy_timeout"` // 秒
	WALMode     bool   `yaml:"wal_mode"`
}

// BinderConfig はカメラ接続先の設定
type BinderConfig struct {
	Kind         string        `yaml:"kind"`          // v4l2 / mqtt / log
	ProbeTimeout time.Duration `yaml:"probe_timeout"` // v4l2のデバイス確認のタイムアウト
}

// MQTTConfig はmqtt binderのブローカー設定
type MQTTConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         int    `yaml:"qos"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// LoggingConfig はログ出力の設定
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Format string `yaml:"format"` // json / text
	Output string `yaml:"output"` // stdout / stderr
}

// 選択肢
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"

	BinderKindV4L2 = "v4l2"
	BinderKindMQTT = "mqtt"
	BinderKindLog  = "log"
)

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Camera: CameraConfig{
			Lenses:       []LensConfig{},
			USB:          true,
			Bluetooth:    true,
			ScanInterval: 30 * time.Second,
		},
		Store: StoreConfig{
			Driver:      StoreDriverSQLite,
			Path:        "./data/camswitch.db",
			BusyTimeout: 5,
			WALMode:     true,
		},
		Binder: BinderConfig{
			Kind:         BinderKindLog,
			ProbeTimeout: 3 * time.Second,
		},
		MQTT: MQTTConfig{
			Host:        "localhost",
			Port:        1883,
			ClientID:    "camswitch",
			QoS:         1,
			TopicPrefix: "camswitch",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load は設定を読み込む
//
// デフォルト値、YAMLファイル、環境変数の順に上書きし、最後に検証する。
// pathが空の場合は CAMSWITCH_CONFIG を参照し、それも空ならファイルは読まない。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CAMSWITCH_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides は環境変数で設定を上書きする
func (c *Config) applyEnvOverrides() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Store.Path = getEnvOrDefault("CAMSWITCH_STORE_PATH", c.Store.Path)
	c.Logging.Level = getEnvOrDefault("CAMSWITCH_LOG_LEVEL", c.Logging.Level)
	c.MQTT.Host = getEnvOrDefault("MQTT_BROKER_HOST", c.MQTT.Host)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// レンズ設定の検証
	seen := make(map[string]struct{}, len(c.Camera.Lenses))
	for i, lens := range c.Camera.Lenses {
		if lens.ID == "" {
			return fmt.Errorf("レンズ%dのIDが空です", i)
		}
		if _, dup := seen[lens.ID]; dup {
			return fmt.Errorf("レンズIDが重複しています: %s", lens.ID)
		}
		seen[lens.ID] = struct{}{}

		if _, ok := camera.ParseFacing(lens.Facing); !ok {
			return fmt.Errorf("無効な向き: %s (レンズ %s)", lens.Facing, lens.ID)
		}
		if lens.FocalLengthMM != nil && *lens.FocalLengthMM <= 0 {
			return fmt.Errorf("無効な焦点距離: %v (レンズ %s)", *lens.FocalLengthMM, lens.ID)
		}
	}
	if c.Camera.ScanInterval < 0 {
		return fmt.Errorf("無効な再検出間隔: %v", c.Camera.ScanInterval)
	}

	// 保存先の検証
	switch c.Store.Driver {
	case StoreDriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("sqliteのパスが指定されていません")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("未対応のストア: %s", c.Store.Driver)
	}

	// 接続先の検証
	switch c.Binder.Kind {
	case BinderKindV4L2, BinderKindLog:
	case BinderKindMQTT:
		if c.MQTT.Host == "" {
			return fmt.Errorf("MQTTブローカーのホストが指定されていません")
		}
		if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
			return fmt.Errorf("無効なMQTTポート番号: %d", c.MQTT.Port)
		}
	default:
		return fmt.Errorf("未対応のbinder: %s", c.Binder.Kind)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("無効なQoS: %d", c.MQTT.QoS)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LensRecords は内蔵レンズの宣言をDeviceRecordに変換する
// Validate済みであることを前提とする
func (c *Config) LensRecords() []camera.DeviceRecord {
	records := make([]camera.DeviceRecord, 0, len(c.Camera.Lenses))
	for _, lens := range c.Camera.Lenses {
		facing, _ := camera.ParseFacing(lens.Facing)
		rec := camera.DeviceRecord{
			ID:           lens.ID,
			Source:       camera.SourceBuiltIn,
			Facing:       facing,
			Label:        lens.Label,
			Device:       lens.Device,
			Capabilities: append([]int(nil), lens.Capabilities...),
		}
		if lens.FocalLengthMM != nil {
			rec.FocalLengthMM = camera.FocalLength(*lens.FocalLengthMM)
		}
		records = append(records, rec)
	}
	return records
}

// LensDevices は内蔵レンズIDからデバイスパスへの対応を返す
func (c *Config) LensDevices() map[string]string {
	devices := make(map[string]string, len(c.Camera.Lenses))
	for _, lens := range c.Camera.Lenses {
		if lens.Device != "" {
			devices[lens.ID] = lens.Device
		}
	}
	return devices
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
