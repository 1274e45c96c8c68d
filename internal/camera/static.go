package camera

import "context"

// StaticSource は設定で宣言されたレコードをそのまま返す
//
// レンズ情報を取得するAPIが無いホストでは、内蔵レンズをここで宣言する。
type StaticSource struct {
	kind    Source
	records []DeviceRecord
}

// NewStaticSource は新しいStaticSourceを作成する
func NewStaticSource(kind Source, records []DeviceRecord) *StaticSource {
	return &StaticSource{
		kind:    kind,
		records: append([]DeviceRecord(nil), records...),
	}
}

// Kind はソースの種類を返す
func (s *StaticSource) Kind() Source {
	return s.kind
}

// Enumerate は宣言順にレコードを返す
func (s *StaticSource) Enumerate(_ context.Context) ([]DeviceRecord, error) {
	return append([]DeviceRecord(nil), s.records...), nil
}
