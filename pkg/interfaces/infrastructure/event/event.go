// Package event 提供客户端事件总线接口定义
//
// 事件总线只在进程内传递通知，例如会话切换、交易提交完成。
// 订阅者据此刷新依赖的读模型，发布方不关心有没有订阅者。
package event

// EventType 事件类型
type EventType string

// Event 事件接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Data 返回事件数据
	Data() interface{}
}

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 订阅事件，handler 为任意函数，参数需与发布时一致
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅，transactional 为 true 时同一处理器串行执行
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// SubscribeOnce 一次性订阅
	SubscribeOnce(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// PublishEvent 发布Event接口类型事件
	PublishEvent(event Event)
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// WaitAsync 等待异步处理完成
	WaitAsync()
	// HasCallback 检查是否有订阅者
	HasCallback(eventType EventType) bool
}
