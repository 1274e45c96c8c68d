package camera

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"
)

const (
	bluetoothIDPrefix = "bt_"

	bluezService           = "org.bluez"
	bluezAdapterInterface  = "org.bluez.Adapter1"
	bluezDeviceInterface   = "org.bluez.Device1"
	getManagedObjectsCall  = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
	dbusServiceUnknownName = "org.freedesktop.DBus.Error.ServiceUnknown"
)

// errBluetoothAbsent はBluetoothスタックが存在しないことを表す（エラーではなく空扱い）
var errBluetoothAbsent = errors.New("bluetooth stack not available")

// managedObjects はGetManagedObjectsの戻り値
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// BlueZSource はBlueZのペアリング済みデバイスからカメラを列挙する
type BlueZSource struct {
	fetch func(ctx context.Context) (managedObjects, error)
}

// NewBlueZSource はシステムバスを使うBlueZSourceを作成する
func NewBlueZSource() *BlueZSource {
	return &BlueZSource{fetch: systemBusObjects}
}

// Kind はSourceBluetoothを返す
func (s *BlueZSource) Kind() Source {
	return SourceBluetooth
}

// Enumerate はペアリング済みで名前に "camera" を含むデバイスを返す
//
// アダプターが無い、または無効な場合はエラーではなく空を返す。
func (s *BlueZSource) Enumerate(ctx context.Context) ([]DeviceRecord, error) {
	objects, err := s.fetch(ctx)
	if errors.Is(err, errBluetoothAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Bluetoothデバイスの取得に失敗: %w", err)
	}
	return bluetoothRecords(objects), nil
}

// systemBusObjects はシステムバス上のBlueZオブジェクトを取得する
func systemBusObjects(ctx context.Context) (managedObjects, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errBluetoothAbsent
	}
	defer func() {
		_ = conn.Close()
	}()

	var objects managedObjects
	call := conn.Object(bluezService, dbus.ObjectPath("/")).CallWithContext(ctx, getManagedObjectsCall, 0)
	if err := call.Store(&objects); err != nil {
		if isServiceUnknown(err) {
			return nil, errBluetoothAbsent
		}
		return nil, err
	}
	return objects, nil
}

func isServiceUnknown(err error) bool {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		return dbusErr.Name == dbusServiceUnknownName
	}
	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) {
		return dbusErrPtr.Name == dbusServiceUnknownName
	}
	return false
}

// bluetoothRecords はBlueZのオブジェクト一覧からカメラのレコードを作る
func bluetoothRecords(objects managedObjects) []DeviceRecord {
	if !anyAdapterPowered(objects) {
		return nil
	}

	paths := make([]string, 0, len(objects))
	for path := range objects {
		paths = append(paths, string(path))
	}
	sort.Strings(paths)

	var records []DeviceRecord
	for _, path := range paths {
		props, ok := objects[dbus.ObjectPath(path)][bluezDeviceInterface]
		if !ok {
			continue
		}

		if paired, _ := variantBool(props["Paired"]); !paired {
			continue
		}

		name, _ := variantString(props["Name"])
		if name == "" {
			name, _ = variantString(props["Alias"])
		}
		if !IsCameraName(name) {
			continue
		}

		address, _ := variantString(props["Address"])
		if address == "" {
			continue
		}

		records = append(records, DeviceRecord{
			ID:     bluetoothIDPrefix + address,
			Source: SourceBluetooth,
			Facing: FacingUnknown,
			Label:  name,
		})
	}
	return records
}

func anyAdapterPowered(objects managedObjects) bool {
	for _, ifaces := range objects {
		props, ok := ifaces[bluezAdapterInterface]
		if !ok {
			continue
		}
		if powered, _ := variantBool(props["Powered"]); powered {
			return true
		}
	}
	return false
}

func variantBool(v dbus.Variant) (bool, bool) {
	b, ok := v.Value().(bool)
	return b, ok
}

func variantString(v dbus.Variant) (string, bool) {
	s, ok := v.Value().(string)
	return s, ok
}
