// 事件类型常量定义

package event

import "github.com/suiticket/v1/pkg/interfaces/infrastructure/event"

const (
	// EventSessionChanged 网络或账户切换，参数为新的会话上下文
	EventSessionChanged event.EventType = "session:changed"

	// EventTransactionSubmitted 交易提交完成，参数为动作结果
	EventTransactionSubmitted event.EventType = "tx:submitted"
)
