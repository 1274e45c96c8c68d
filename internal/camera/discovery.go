package camera

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	usbIDPrefix = "usb_"

	// usbBusPrefix はUSB接続のデバイスが報告するバス情報の接頭辞
	usbBusPrefix = "usb-"

	videoDevicePattern = "/dev/video*"
)

var deviceNumberPattern = regexp.MustCompile(`video(\d+)`)

// errV4L2Unavailable はV4L2を開けない環境で返す
var errV4L2Unavailable = errors.New("V4L2は利用できません")

// videoNode は開いたV4L2デバイスのうち検出に使う部分
type videoNode interface {
	GetName() (string, error)
	GetBusInfo() (string, error)
	Close() error
}

// nodeInfo は1つのビデオノードから読み取った情報
type nodeInfo struct {
	Path string
	Name string
	Bus  string
}

// V4L2Source はUSB接続のV4L2ビデオデバイスを列挙する
type V4L2Source struct {
	glob    func(pattern string) ([]string, error)
	open    func(path string) (videoNode, error)
	exclude map[string]struct{}
}

// NewV4L2Source は新しいV4L2Sourceを作成する
//
// excludeに指定したデバイスパスは内蔵レンズとして扱われているものとして除外する。
func NewV4L2Source(exclude ...string) *V4L2Source {
	return newV4L2Source(filepath.Glob, openVideoNode, exclude...)
}

func newV4L2Source(glob func(string) ([]string, error), open func(string) (videoNode, error), exclude ...string) *V4L2Source {
	ex := make(map[string]struct{}, len(exclude))
	for _, path := range exclude {
		ex[path] = struct{}{}
	}
	return &V4L2Source{glob: glob, open: open, exclude: ex}
}

// Kind はSourceUSBを返す
func (s *V4L2Source) Kind() Source {
	return SourceUSB
}

// Enumerate は /dev/video* を番号順にスキャンし、USB接続のノードだけを返す
//
// 開けないノードは利用できないものとして飛ばす。
func (s *V4L2Source) Enumerate(ctx context.Context) ([]DeviceRecord, error) {
	paths, err := s.glob(videoDevicePattern)
	if err != nil {
		return nil, fmt.Errorf("デバイスのスキャンに失敗: %w", err)
	}

	nodes := make([]nodeInfo, 0, len(paths))
	for _, path := range paths {
		// コンテキストのキャンセルをチェック
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, skip := s.exclude[path]; skip {
			continue
		}

		node, ok := s.inspect(path)
		if !ok {
			continue
		}
		nodes = append(nodes, node)
	}

	return usbRecords(nodes), nil
}

// inspect はデバイスを開いてカード名とバス情報を読み取る
func (s *V4L2Source) inspect(path string) (nodeInfo, bool) {
	dev, err := s.open(path)
	if err != nil {
		return nodeInfo{}, false
	}
	defer func() {
		_ = dev.Close()
	}()

	bus, err := dev.GetBusInfo()
	if err != nil {
		return nodeInfo{}, false
	}
	name, err := dev.GetName()
	if err != nil {
		name = ""
	}

	return nodeInfo{Path: path, Name: strings.TrimSpace(name), Bus: strings.TrimSpace(bus)}, true
}

// usbRecords はUSB接続のノードをレコードに変換する
//
// 内蔵のコーデックやISPのノードはUSBバスに無いので除外される。
// 1台の物理カメラが複数のノード（キャプチャとメタデータ）を持つため、
// 同じカード名のノードは最も小さい番号のものだけを残す。
func usbRecords(nodes []nodeInfo) []DeviceRecord {
	usb := make([]nodeInfo, 0, len(nodes))
	for _, node := range nodes {
		if strings.HasPrefix(node.Bus, usbBusPrefix) {
			usb = append(usb, node)
		}
	}

	// デバイス番号でソート
	sort.Slice(usb, func(i, j int) bool {
		numI := extractDeviceNumber(usb[i].Path)
		numJ := extractDeviceNumber(usb[j].Path)
		if numI != numJ {
			return numI < numJ
		}
		return usb[i].Path < usb[j].Path
	})

	var records []DeviceRecord
	seenNames := make(map[string]struct{})
	for _, node := range usb {
		if node.Name != "" {
			if _, seen := seenNames[node.Name]; seen {
				continue
			}
			seenNames[node.Name] = struct{}{}
		}

		records = append(records, DeviceRecord{
			ID:     usbIDPrefix + strconv.Itoa(extractDeviceNumber(node.Path)),
			Source: SourceUSB,
			Facing: FacingUnknown,
			Label:  node.Name,
			Device: node.Path,
		})
	}

	return records
}

// extractDeviceNumber はデバイスパスから番号を抽出する
func extractDeviceNumber(device string) int {
	// /dev/videoXX から XX を抽出
	matches := deviceNumberPattern.FindStringSubmatch(device)
	if len(matches) < 2 {
		return 0
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}

	return num
}
