package binder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"camswitch/internal/camera"
	"camswitch/internal/config"
)

const (
	// connectTimeout は初回接続の最大待ち時間
	connectTimeout = 10 * time.Second

	// publishTimeout は送信完了の最大待ち時間
	publishTimeout = 5 * time.Second

	// disconnectQuiesce は切断時に未送信の処理を待つ時間（ミリ秒）
	disconnectQuiesce = 1000

	// keepAlive はブローカーとのキープアライブ間隔
	keepAlive = 60 * time.Second

	// reconnectInterval は再接続の最大間隔
	reconnectInterval = 30 * time.Second
)

// Publisher はMQTTの送信部分
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	IsConnected() bool
	Disconnect()
}

// BindRequest は <prefix>/bind に送る接続要求
type BindRequest struct {
	RequestID   string        `json:"request_id"`
	DeviceID    string        `json:"device_id"`
	Facing      camera.Facing `json:"facing"`
	RequestedAt time.Time     `json:"requested_at"`
}

// ActiveState は <prefix>/active に保持されるアクティブなカメラ
type ActiveState struct {
	DeviceID  string        `json:"device_id"`
	Facing    camera.Facing `json:"facing"`
	RequestID string        `json:"request_id"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// MQTT は接続要求をMQTTブローカーに送るBinder
//
// 実際のカメラの切り替えは要求を購読する別プロセスが行う。
type MQTT struct {
	pub    Publisher
	prefix string
	qos    byte
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	active string
}

// NewMQTT はPublisherを使うMQTTを作成する
func NewMQTT(pub Publisher, prefix string, qos byte, logger *slog.Logger) *MQTT {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTT{
		pub:    pub,
		prefix: prefix,
		qos:    qos,
		logger: logger,
		now:    time.Now,
	}
}

// Connect はブローカーに接続してMQTTを作成する
func Connect(cfg config.MQTTConfig, logger *slog.Logger) (*MQTT, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := buildClientOptions(cfg)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		logger.Info("mqtt connected", "broker", brokerURL(cfg))
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return NewMQTT(&pahoPublisher{client: client}, cfg.TopicPrefix, byte(cfg.QoS), logger), nil
}

// Bind は接続要求を送り、保持メッセージのアクティブ状態を更新する
func (m *MQTT) Bind(ctx context.Context, deviceID string, facing camera.Facing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.pub.IsConnected() {
		return ErrNotConnected
	}

	req := BindRequest{
		RequestID:   uuid.NewString(),
		DeviceID:    deviceID,
		Facing:      facing,
		RequestedAt: m.now().UTC(),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("接続要求の変換に失敗: %w", err)
	}
	if err := m.pub.Publish(m.BindTopic(), m.qos, false, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, m.BindTopic(), err)
	}

	state, err := json.Marshal(ActiveState{
		DeviceID:  deviceID,
		Facing:    facing,
		RequestID: req.RequestID,
		UpdatedAt: req.RequestedAt,
	})
	if err != nil {
		return fmt.Errorf("状態の変換に失敗: %w", err)
	}
	if err := m.pub.Publish(m.ActiveTopic(), m.qos, true, state); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, m.ActiveTopic(), err)
	}

	m.mu.Lock()
	m.active = deviceID
	m.mu.Unlock()

	m.logger.Info("published bind request", "device_id", deviceID, "request_id", req.RequestID)
	return nil
}

// Active は最後に送信に成功したデバイスIDを返す
func (m *MQTT) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// BindTopic は接続要求のトピック
func (m *MQTT) BindTopic() string {
	return m.prefix + "/bind"
}

// ActiveTopic はアクティブ状態のトピック
func (m *MQTT) ActiveTopic() string {
	return m.prefix + "/active"
}

// Close はブローカーから切断する
func (m *MQTT) Close() error {
	m.pub.Disconnect()
	return nil
}

// pahoPublisher はpahoクライアントをPublisherに合わせる
type pahoPublisher struct {
	client pahomqtt.Client
}

func (p *pahoPublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout after %v", publishTimeout)
	}
	return token.Error()
}

func (p *pahoPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

func (p *pahoPublisher) Disconnect() {
	p.client.Disconnect(disconnectQuiesce)
}

func brokerURL(cfg config.MQTTConfig) string {
	return fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
}

// buildClientOptions は設定からpahoの接続オプションを作る
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg))
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(reconnectInterval)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	return opts
}
