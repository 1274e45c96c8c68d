//go:build !linux

package camera

// openVideoNode はV4L2が無い環境では常に失敗する
func openVideoNode(string) (videoNode, error) {
	return nil, errV4L2Unavailable
}
