// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"

	"github.com/suiticket/v1/pkg/interfaces/infrastructure/event"
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 在底层总线之上只增加发布计数，处理器的签名约束与底层库一致。
type EventBus struct {
	bus       evbus.Bus
	published atomic.Uint64
}

var _ event.EventBus = (*EventBus)(nil)

// New 创建事件总线
func New() *EventBus {
	return &EventBus{bus: evbus.New()}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// SubscribeOnce 实现一次性订阅
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	eb.published.Add(1)
	eb.bus.Publish(string(eventType), args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(e event.Event) {
	eb.Publish(e.Type(), e.Data())
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// Published 已发布的事件数
func (eb *EventBus) Published() uint64 {
	return eb.published.Load()
}
