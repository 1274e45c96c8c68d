package binder

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camswitch/internal/camera"
	"camswitch/internal/config"
)

var (
	_ Binder = (*V4L2)(nil)
	_ Binder = (*MQTT)(nil)
	_ Binder = (*Log)(nil)
)

func TestV4L2_Bind(t *testing.T) {
	var probed []string
	probe := func(_ context.Context, path string) (map[string]string, error) {
		probed = append(probed, path)
		return map[string]string{"Card type": "Integrated Camera"}, nil
	}
	v := newV4L2(map[string]string{"0": "/dev/video0", "1": "/dev/video2"}, time.Second, nil, probe)

	require.NoError(t, v.Bind(context.Background(), "1", camera.FacingFront))
	assert.Equal(t, "1", v.Bound())
	assert.Equal(t, []string{"/dev/video2"}, probed)
}

func TestV4L2_UnknownDevice(t *testing.T) {
	v := newV4L2(map[string]string{"0": "/dev/video0"}, time.Second, nil, func(context.Context, string) (map[string]string, error) {
		t.Fatal("対応の無いIDで確認が呼ばれました")
		return nil, nil
	})

	err := v.Bind(context.Background(), "7", camera.FacingBack)
	assert.ErrorIs(t, err, ErrDeviceUnknown)
	assert.Empty(t, v.Bound())
}

func TestV4L2_ProbeFailureKeepsPreviousBinding(t *testing.T) {
	failing := errors.New("exit status 1")
	v := newV4L2(map[string]string{"0": "/dev/video0", "1": "/dev/video2"}, time.Second, nil,
		func(_ context.Context, path string) (map[string]string, error) {
			if path == "/dev/video2" {
				return nil, failing
			}
			return map[string]string{}, nil
		})

	require.NoError(t, v.Bind(context.Background(), "0", camera.FacingBack))

	err := v.Bind(context.Background(), "1", camera.FacingFront)
	assert.ErrorIs(t, err, ErrProbeFailed)
	assert.ErrorIs(t, err, failing)
	assert.Equal(t, "0", v.Bound())
}

func TestV4L2_ProbeHasDeadline(t *testing.T) {
	v := newV4L2(map[string]string{"0": "/dev/video0"}, 50*time.Millisecond, nil,
		func(ctx context.Context, _ string) (map[string]string, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return map[string]string{}, nil
		})

	require.NoError(t, v.Bind(context.Background(), "0", camera.FacingBack))
}

func TestParseDeviceInfo(t *testing.T) {
	output := `Driver Info:
	Driver name      : uvcvideo
	Card type        : Integrated Camera: Integrated C
	Bus info         : usb-0000:00:14.0-8
`
	info := parseDeviceInfo(output)

	assert.Equal(t, "uvcvideo", info["Driver name"])
	assert.Equal(t, "Integrated Camera: Integrated C", info["Card type"])
	assert.Equal(t, "usb-0000:00:14.0-8", info["Bus info"])
	assert.Equal(t, "", info["Driver Info"])
}

type publishedMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	mu           sync.Mutex
	connected    bool
	failTopic    string
	messages     []publishedMessage
	disconnected bool
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if topic == f.failTopic {
		return errors.New("broker rejected")
	}
	f.messages = append(f.messages, publishedMessage{topic, qos, retained, payload})
	return nil
}

func (f *fakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePublisher) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
	f.connected = false
}

func TestMQTT_Bind(t *testing.T) {
	pub := &fakePublisher{connected: true}
	m := NewMQTT(pub, "home/camswitch", 1, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	require.NoError(t, m.Bind(context.Background(), "back_0", camera.FacingBack))
	require.Len(t, pub.messages, 2)

	bind := pub.messages[0]
	assert.Equal(t, "home/camswitch/bind", bind.topic)
	assert.Equal(t, byte(1), bind.qos)
	assert.False(t, bind.retained)

	var req BindRequest
	require.NoError(t, json.Unmarshal(bind.payload, &req))
	assert.Equal(t, "back_0", req.DeviceID)
	assert.Equal(t, camera.FacingBack, req.Facing)
	assert.True(t, fixed.Equal(req.RequestedAt))
	assert.NotEmpty(t, req.RequestID)

	active := pub.messages[1]
	assert.Equal(t, "home/camswitch/active", active.topic)
	assert.True(t, active.retained)

	var state ActiveState
	require.NoError(t, json.Unmarshal(active.payload, &state))
	assert.Equal(t, "back_0", state.DeviceID)
	assert.Equal(t, req.RequestID, state.RequestID)

	assert.Equal(t, "back_0", m.Active())
}

func TestMQTT_RequestIDsAreUnique(t *testing.T) {
	pub := &fakePublisher{connected: true}
	m := NewMQTT(pub, "camswitch", 0, nil)

	require.NoError(t, m.Bind(context.Background(), "0", camera.FacingBack))
	require.NoError(t, m.Bind(context.Background(), "0", camera.FacingBack))

	var first, second BindRequest
	require.NoError(t, json.Unmarshal(pub.messages[0].payload, &first))
	require.NoError(t, json.Unmarshal(pub.messages[2].payload, &second))
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestMQTT_NotConnected(t *testing.T) {
	pub := &fakePublisher{connected: false}
	m := NewMQTT(pub, "camswitch", 1, nil)

	err := m.Bind(context.Background(), "0", camera.FacingBack)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, pub.messages)
}

func TestMQTT_PublishFailure(t *testing.T) {
	pub := &fakePublisher{connected: true, failTopic: "camswitch/bind"}
	m := NewMQTT(pub, "camswitch", 1, nil)

	err := m.Bind(context.Background(), "0", camera.FacingBack)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Empty(t, m.Active())
}

func TestMQTT_Close(t *testing.T) {
	pub := &fakePublisher{connected: true}
	m := NewMQTT(pub, "camswitch", 1, nil)

	require.NoError(t, m.Close())
	assert.True(t, pub.disconnected)
}

func TestLog_Bind(t *testing.T) {
	l := NewLog(nil)
	assert.NoError(t, l.Bind(context.Background(), "0", camera.FacingBack))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Bind(ctx, "0", camera.FacingBack), context.Canceled)
	assert.NoError(t, l.Close())
}

func TestNew(t *testing.T) {
	cfg := config.Default()

	cfg.Binder.Kind = config.BinderKindLog
	b, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Log{}, b)

	cfg.Binder.Kind = config.BinderKindV4L2
	b, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &V4L2{}, b)

	cfg.Binder.Kind = "bogus"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(config.MQTTConfig{
		Host:     "broker.local",
		Port:     1884,
		ClientID: "camswitch-test",
		Username: "user",
		Password: "pass",
	})

	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://broker.local:1884", opts.Servers[0].String())
	assert.Equal(t, "camswitch-test", opts.ClientID)
	assert.Equal(t, "user", opts.Username)
	assert.True(t, opts.AutoReconnect)
}
