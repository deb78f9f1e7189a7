// Package transporttest 提供内存中的 transport.Client 实现，用于测试
package transporttest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/bcs"
)

// InspectHandler 处理一次模拟调用，kind 为解码后的 TransactionKind 字节
type InspectHandler func(sender string, kind []byte) (*transport.DevInspectResults, error)

// ExecuteHandler 处理一次交易提交
type ExecuteHandler func(txBytes []byte, signatures []string) (*transport.TransactionBlockResponse, error)

type inspectRule struct {
	needle  []byte
	handler InspectHandler
}

// Fake 内存节点
//
// 对象、拥有关系、动态字段均由测试预先装载；模拟调用按函数名匹配规则。
type Fake struct {
	mu sync.Mutex

	objects       map[string]*transport.ObjectData
	objectErrors  map[string]error
	owned         map[string][]string
	dynamicFields map[string][]transport.DynamicFieldInfo
	coins         map[string][]transport.Coin
	balances      map[string]uint64

	inspectRules []inspectRule
	execute      ExecuteHandler
	gasPrice     uint64

	// PageSize 分页大小上限，0 表示使用请求中的 limit
	PageSize int

	calls map[string]int
}

var _ transport.Client = (*Fake)(nil)

// New 创建空的内存节点
func New() *Fake {
	return &Fake{
		objects:       make(map[string]*transport.ObjectData),
		objectErrors:  make(map[string]error),
		owned:         make(map[string][]string),
		dynamicFields: make(map[string][]transport.DynamicFieldInfo),
		coins:         make(map[string][]transport.Coin),
		balances:      make(map[string]uint64),
		gasPrice:      1000,
		calls:         make(map[string]int),
	}
}

// AddObject 装载对象，owner 非空时同时登记为该地址拥有
func (f *Fake) AddObject(obj *transport.ObjectData, owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[obj.ObjectID] = obj
	if owner != "" {
		f.owned[owner] = append(f.owned[owner], obj.ObjectID)
	}
}

// FailObject 使该对象的任何获取都返回 err
func (f *Fake) FailObject(objectID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objectErrors[objectID] = err
}

// AddDynamicField 为父对象追加一个动态字段
func (f *Fake) AddDynamicField(parentID string, info transport.DynamicFieldInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dynamicFields[parentID] = append(f.dynamicFields[parentID], info)
}

// AddCoin 为地址登记一个原生币对象
func (f *Fake) AddCoin(owner string, coin transport.Coin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coins[owner] = append(f.coins[owner], coin)
	f.balances[owner] += uint64(coin.Balance)
}

// SetGasPrice 设置参考Gas价格
func (f *Fake) SetGasPrice(price uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gasPrice = price
}

// OnInspect 为调用指定函数的模拟交易注册处理器，后注册的规则优先
func (f *Fake) OnInspect(function string, handler InspectHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inspectRules = append([]inspectRule{{needle: bcs.String(function), handler: handler}}, f.inspectRules...)
}

// OnExecute 注册交易提交处理器
func (f *Fake) OnExecute(handler ExecuteHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execute = handler
}

// Calls 返回某个方法被调用的次数
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// ReturnU64 返回单个 u64 结果的模拟执行结果
func ReturnU64(v uint64) *transport.DevInspectResults {
	return Return(transport.ReturnValue{Bytes: bcs.U64(v), Type: "u64"})
}

// ReturnBool 返回单个 bool 结果的模拟执行结果
func ReturnBool(v bool) *transport.DevInspectResults {
	return Return(transport.ReturnValue{Bytes: bcs.Bool(v), Type: "bool"})
}

// Return 以给定返回值构造成功的模拟执行结果
func Return(values ...transport.ReturnValue) *transport.DevInspectResults {
	return &transport.DevInspectResults{
		Effects: transport.TransactionEffects{Status: transport.ExecutionStatus{Status: "success"}},
		Results: []transport.ExecutionResult{{ReturnValues: values}},
	}
}

// Abort 构造失败的模拟执行结果
func Abort(msg string) *transport.DevInspectResults {
	return &transport.DevInspectResults{
		Effects: transport.TransactionEffects{Status: transport.ExecutionStatus{Status: "failure", Error: msg}},
		Error:   msg,
	}
}

func (f *Fake) getObject(id string) *transport.ObjectResponse {
	if obj, ok := f.objects[id]; ok {
		cp := *obj
		return &transport.ObjectResponse{Data: &cp}
	}
	return &transport.ObjectResponse{Error: &transport.ObjectError{Code: "notExists", ObjectID: id}}
}

func (f *Fake) GetObject(_ context.Context, objectID string, _ *transport.ObjectDataOptions) (*transport.ObjectResponse, error) {
	f.record("GetObject")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.objectErrors[objectID]; err != nil {
		return nil, err
	}
	return f.getObject(objectID), nil
}

func (f *Fake) MultiGetObjects(_ context.Context, objectIDs []string, _ *transport.ObjectDataOptions) ([]*transport.ObjectResponse, error) {
	f.record("MultiGetObjects")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*transport.ObjectResponse, len(objectIDs))
	for i, id := range objectIDs {
		if err := f.objectErrors[id]; err != nil {
			return nil, err
		}
		out[i] = f.getObject(id)
	}
	return out, nil
}

// paginate 以字符串形式的下标作为游标
func paginate(total int, cursor *string, limit, pageSize int) (start, end int, next *string, err error) {
	if cursor != nil {
		start, err = strconv.Atoi(*cursor)
		if err != nil || start < 0 || start > total {
			return 0, 0, nil, fmt.Errorf("invalid cursor %q", *cursor)
		}
	}
	size := limit
	if pageSize > 0 && (size <= 0 || pageSize < size) {
		size = pageSize
	}
	if size <= 0 {
		size = 50
	}
	end = start + size
	if end > total {
		end = total
	}
	if end < total {
		c := strconv.Itoa(end)
		next = &c
	}
	return start, end, next, nil
}

func (f *Fake) GetOwnedObjects(_ context.Context, owner string, _ *transport.ObjectResponseQuery, cursor *string, limit int) (*transport.ObjectsPage, error) {
	f.record("GetOwnedObjects")
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := f.owned[owner]
	start, end, next, err := paginate(len(ids), cursor, limit, f.PageSize)
	if err != nil {
		return nil, err
	}
	page := &transport.ObjectsPage{NextCursor: next, HasNextPage: next != nil}
	for _, id := range ids[start:end] {
		page.Data = append(page.Data, f.getObject(id))
	}
	return page, nil
}

func (f *Fake) GetDynamicFields(_ context.Context, parentID string, cursor *string, limit int) (*transport.DynamicFieldPage, error) {
	f.record("GetDynamicFields")
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.objectErrors[parentID]; err != nil {
		return nil, err
	}
	fields := f.dynamicFields[parentID]
	start, end, next, err := paginate(len(fields), cursor, limit, f.PageSize)
	if err != nil {
		return nil, err
	}
	return &transport.DynamicFieldPage{
		Data:        append([]transport.DynamicFieldInfo(nil), fields[start:end]...),
		NextCursor:  next,
		HasNextPage: next != nil,
	}, nil
}

func (f *Fake) DevInspectTransactionBlock(_ context.Context, sender string, txKindBase64 string) (*transport.DevInspectResults, error) {
	f.record("DevInspectTransactionBlock")
	kind, err := base64.StdEncoding.DecodeString(txKindBase64)
	if err != nil {
		return nil, fmt.Errorf("decode tx kind: %w", err)
	}

	f.mu.Lock()
	rules := append([]inspectRule(nil), f.inspectRules...)
	f.mu.Unlock()

	for _, rule := range rules {
		if bytes.Contains(kind, rule.needle) {
			return rule.handler(sender, kind)
		}
	}
	return Abort("no handler for simulated call"), nil
}

func (f *Fake) ExecuteTransactionBlock(_ context.Context, txBytesBase64 string, signatures []string) (*transport.TransactionBlockResponse, error) {
	f.record("ExecuteTransactionBlock")
	txBytes, err := base64.StdEncoding.DecodeString(txBytesBase64)
	if err != nil {
		return nil, fmt.Errorf("decode tx bytes: %w", err)
	}

	f.mu.Lock()
	handler := f.execute
	f.mu.Unlock()

	if handler == nil {
		return &transport.TransactionBlockResponse{
			Digest:  ZeroDigest,
			Effects: &transport.TransactionEffects{Status: transport.ExecutionStatus{Status: "success"}},
		}, nil
	}
	return handler(txBytes, signatures)
}

func (f *Fake) GetBalance(_ context.Context, owner string, coinType string) (*transport.Balance, error) {
	f.record("GetBalance")
	f.mu.Lock()
	defer f.mu.Unlock()
	if coinType == "" {
		coinType = "0x2::sui::SUI"
	}
	return &transport.Balance{
		CoinType:        coinType,
		CoinObjectCount: len(f.coins[owner]),
		TotalBalance:    transport.Uint64(f.balances[owner]),
	}, nil
}

func (f *Fake) GetCoins(_ context.Context, owner string, _ string, cursor *string, limit int) (*transport.CoinPage, error) {
	f.record("GetCoins")
	f.mu.Lock()
	defer f.mu.Unlock()

	coins := append([]transport.Coin(nil), f.coins[owner]...)
	sort.SliceStable(coins, func(i, j int) bool { return coins[i].Balance > coins[j].Balance })
	start, end, next, err := paginate(len(coins), cursor, limit, f.PageSize)
	if err != nil {
		return nil, err
	}
	return &transport.CoinPage{Data: coins[start:end], NextCursor: next, HasNextPage: next != nil}, nil
}

func (f *Fake) GetReferenceGasPrice(context.Context) (uint64, error) {
	f.record("GetReferenceGasPrice")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gasPrice, nil
}

func (f *Fake) CallRaw(_ context.Context, method string, _ []interface{}) (json.RawMessage, error) {
	f.record(method)
	return nil, fmt.Errorf("method %s not supported by fake", method)
}

func (f *Fake) Close() error { return nil }

// ZeroDigest 32 个零字节的 base58 表示
const ZeroDigest = "11111111111111111111111111111111"

// OwnedObject 构造地址拥有的 Move 对象
func OwnedObject(id, typ, owner string, fields map[string]interface{}) *transport.ObjectData {
	return &transport.ObjectData{
		ObjectID: id,
		Version:  1,
		Digest:   ZeroDigest,
		Type:     typ,
		Owner:    &transport.Owner{AddressOwner: owner},
		Content:  &transport.MoveContent{DataType: "moveObject", Type: typ, Fields: fields},
	}
}

// SharedObject 构造共享 Move 对象
func SharedObject(id, typ string, fields map[string]interface{}) *transport.ObjectData {
	return &transport.ObjectData{
		ObjectID: id,
		Version:  3,
		Digest:   ZeroDigest,
		Type:     typ,
		Owner:    &transport.Owner{Shared: &transport.SharedOwner{InitialSharedVersion: 1}},
		Content:  &transport.MoveContent{DataType: "moveObject", Type: typ, Fields: fields},
	}
}
