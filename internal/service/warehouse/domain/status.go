package domain

// Status 定义了订单的生命周期状态。
//
// CREATED → PROCESSING → CONFIRMED → DONE
// CREATED → CANCELLED
// *       → REJECTED (由外部确认流程回调触发)
type Status string

const (
	StatusCreated    Status = "CREATED"    // 初始状态，唯一允许修改订单行的状态
	StatusProcessing Status = "PROCESSING" // 已提交外部确认流程，等待回调
	StatusConfirmed  Status = "CONFIRMED"  // 外部流程确认
	StatusCancelled  Status = "CANCELLED"  // 已取消，库存已归还
	StatusDone       Status = "DONE"       // 已完成
	StatusRejected   Status = "REJECTED"   // 被外部流程拒绝
)

// IsTerminal 报告该状态是否为终态：终态订单不再发生任何行变更或库存预占。
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDone || s == StatusRejected
}

// Valid 报告该状态是否为已知状态。
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusProcessing, StatusConfirmed, StatusCancelled, StatusDone, StatusRejected:
		return true
	}
	return false
}
