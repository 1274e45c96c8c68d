//go:build linux

package camera

import "github.com/blackjack/webcam"

// openVideoNode はV4L2デバイスを開く
func openVideoNode(path string) (videoNode, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, err
	}
	return cam, nil
}
