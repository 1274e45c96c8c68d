package camera

// cursor はカタログ内で有効なデバイスの位置
//
// カタログが空でない限り 0 <= index < len を満たす。空のカタログでは意味を持たない。
// 変更操作のたびにnormalizeで不変条件を回復する。
type cursor struct {
	index int
}

// Index は現在の位置を返す
func (c cursor) Index() int {
	return c.index
}

// normalize は長さnのカタログに対して範囲外なら0に戻す
func (c *cursor) normalize(n int) {
	if n == 0 || c.index < 0 || c.index >= n {
		c.index = 0
	}
}

// step は範囲を回復してからdeltaだけ進める（両方向に循環する）。n > 0 が前提
func (c *cursor) step(delta, n int) {
	c.normalize(n)
	c.index = ((c.index+delta)%n + n) % n
}

// moveTo は範囲内のiに移動する。範囲外なら何もせずfalse
func (c *cursor) moveTo(i, n int) bool {
	if i < 0 || i >= n {
		return false
	}
	c.index = i
	return true
}
