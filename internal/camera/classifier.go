package camera

import (
	"fmt"
	"strings"
)

// 焦点距離(mm)による分類の境界
const (
	macroMaxFocal     = 2.0
	wideMinFocal      = 1.5
	wideMaxFocal      = 2.5
	telephotoMinFocal = 3.0
)

// Classifier は1回の検出パス内でレコードに既定名を付ける
//
// 同じ入力列を同じ順序で与えれば同じ名前列を返す。パスごとに新しく作ること。
type Classifier struct {
	usbCount       int
	bluetoothCount int
	backCount      int
}

// NewClassifier は新しい検出パス用のClassifierを作成する
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify はレコードを分類し、既定名と表示名（上書き前）を設定して返す
func (c *Classifier) Classify(rec DeviceRecord) ClassifiedDevice {
	name := c.defaultName(rec)
	return ClassifiedDevice{
		DeviceRecord: rec,
		DefaultName:  name,
		DisplayName:  name,
	}
}

// defaultName は規則を上から順に評価し、最初に一致したものを返す
func (c *Classifier) defaultName(rec DeviceRecord) string {
	switch rec.Source {
	case SourceUSB:
		c.usbCount++
		return fmt.Sprintf("USB Camera %d", c.usbCount)
	case SourceBluetooth:
		c.bluetoothCount++
		return fmt.Sprintf("Bluetooth Camera %d", c.bluetoothCount)
	case SourceBuiltIn:
		switch rec.Facing {
		case FacingFront:
			return "Front Camera"
		case FacingBack:
			// 焦点距離の有無に関わらず背面レンズの序数を数える
			ordinal := c.backCount
			c.backCount++
			if rec.FocalLengthMM != nil {
				return nameByFocalLength(*rec.FocalLengthMM)
			}
			return nameByBackOrdinal(ordinal)
		}
	}
	return "Unknown Camera"
}

// nameByFocalLength は焦点距離の区間で名前を決める
//
// 区間は重なっているが、並び順で最初に一致したものが勝つ。1.8mmはMacro。
func nameByFocalLength(mm float64) string {
	switch {
	case mm < macroMaxFocal:
		return "Macro Camera"
	case mm >= wideMinFocal && mm <= wideMaxFocal:
		return "Wide Camera"
	case mm > telephotoMinFocal:
		return "Telephoto Camera"
	default:
		return "Main Camera"
	}
}

func nameByBackOrdinal(ordinal int) string {
	switch ordinal {
	case 0:
		return "Main Camera"
	case 1:
		return "Wide Camera"
	default:
		return fmt.Sprintf("Back Camera %d", ordinal+1)
	}
}

// IsCameraName はBluetoothの広告名がカメラを示すかを返す
func IsCameraName(name string) bool {
	return strings.Contains(strings.ToLower(name), "camera")
}

// InferDefaultName はカタログに無いIDの既定名をIDの形から推定する
func InferDefaultName(id string) string {
	switch {
	case strings.HasPrefix(id, usbIDPrefix):
		return "USB Camera"
	case strings.HasPrefix(id, bluetoothIDPrefix):
		return "Bluetooth Camera"
	default:
		return "Camera " + id
	}
}
