// Package transport 定义与全节点通信的RPC客户端接口及其实现
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client 全节点RPC客户端接口
// 核心组件的所有链上读写都经由此接口，返回值均为解码后的JSON结构
type Client interface {
	// ===== 对象查询 =====

	// GetObject 获取单个对象
	GetObject(ctx context.Context, objectID string, options *ObjectDataOptions) (*ObjectResponse, error)

	// MultiGetObjects 批量获取对象，返回顺序与 objectIDs 一致
	MultiGetObjects(ctx context.Context, objectIDs []string, options *ObjectDataOptions) ([]*ObjectResponse, error)

	// GetOwnedObjects 分页获取地址拥有的对象
	GetOwnedObjects(ctx context.Context, owner string, query *ObjectResponseQuery, cursor *string, limit int) (*ObjectsPage, error)

	// GetDynamicFields 分页获取父对象的动态字段
	GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit int) (*DynamicFieldPage, error)

	// ===== 模拟与执行 =====

	// DevInspectTransactionBlock 以模拟方式执行交易，不修改状态也不需要签名
	DevInspectTransactionBlock(ctx context.Context, sender string, txKindBase64 string) (*DevInspectResults, error)

	// ExecuteTransactionBlock 提交已签名交易
	ExecuteTransactionBlock(ctx context.Context, txBytesBase64 string, signatures []string) (*TransactionBlockResponse, error)

	// ===== 余额与Gas =====

	// GetBalance 获取地址在某币种下的余额，coinType 为空时使用原生币
	GetBalance(ctx context.Context, owner string, coinType string) (*Balance, error)

	// GetCoins 分页获取地址的币对象
	GetCoins(ctx context.Context, owner string, coinType string, cursor *string, limit int) (*CoinPage, error)

	// GetReferenceGasPrice 获取参考Gas价格
	GetReferenceGasPrice(ctx context.Context) (uint64, error)

	// ===== 通用 =====

	// CallRaw 直接调用任意RPC方法
	CallRaw(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)

	// Close 关闭连接
	Close() error
}

var (
	// ErrObjectNotFound 对象不存在或已删除
	ErrObjectNotFound = errors.New("object not found")
	// ErrNoContent 对象缺少 Move 内容
	ErrNoContent = errors.New("object has no move content")
)

// ObjectDataOptions 对象查询选项
type ObjectDataOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
	ShowBcs     bool `json:"showBcs,omitempty"`
	ShowDisplay bool `json:"showDisplay,omitempty"`
}

// FullObjectOptions 返回类型、所有者与内容均展示的选项
func FullObjectOptions() *ObjectDataOptions {
	return &ObjectDataOptions{ShowType: true, ShowOwner: true, ShowContent: true}
}

// ObjectResponseQuery 拥有对象查询条件
type ObjectResponseQuery struct {
	Filter  map[string]interface{} `json:"filter,omitempty"`
	Options *ObjectDataOptions     `json:"options,omitempty"`
}

// StructTypeFilter 按结构体类型过滤的查询条件
func StructTypeFilter(structType string) map[string]interface{} {
	return map[string]interface{}{"StructType": structType}
}

// ObjectResponse 对象查询结果
type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

// Object 返回对象数据，对象不存在时返回 ErrObjectNotFound
func (r *ObjectResponse) Object() (*ObjectData, error) {
	if r == nil || r.Data == nil {
		if r != nil && r.Error != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrObjectNotFound, r.Error.Code, r.Error.ObjectID)
		}
		return nil, ErrObjectNotFound
	}
	return r.Data, nil
}

// ObjectError 对象级错误
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
	Version  string `json:"version,omitempty"`
}

// ObjectData 对象数据
type ObjectData struct {
	ObjectID string       `json:"objectId"`
	Version  Uint64       `json:"version"`
	Digest   string       `json:"digest"`
	Type     string       `json:"type,omitempty"`
	Owner    *Owner       `json:"owner,omitempty"`
	Content  *MoveContent `json:"content,omitempty"`
}

// Fields 返回 Move 对象字段
func (o *ObjectData) Fields() (map[string]interface{}, error) {
	if o == nil || o.Content == nil || o.Content.Fields == nil {
		return nil, ErrNoContent
	}
	return o.Content.Fields, nil
}

// StructType 返回对象类型，优先使用顶层 type
func (o *ObjectData) StructType() string {
	if o.Type != "" {
		return o.Type
	}
	if o.Content != nil {
		return o.Content.Type
	}
	return ""
}

// MoveContent Move 对象内容
type MoveContent struct {
	DataType          string                 `json:"dataType"`
	Type              string                 `json:"type,omitempty"`
	HasPublicTransfer bool                   `json:"hasPublicTransfer,omitempty"`
	Fields            map[string]interface{} `json:"fields,omitempty"`
}

// ObjectsPage 拥有对象分页结果
type ObjectsPage struct {
	Data        []*ObjectResponse `json:"data"`
	NextCursor  *string           `json:"nextCursor"`
	HasNextPage bool              `json:"hasNextPage"`
}

// DynamicFieldName 动态字段名
type DynamicFieldName struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// DynamicFieldInfo 动态字段引用记录
type DynamicFieldInfo struct {
	Name       DynamicFieldName `json:"name"`
	BcsName    string           `json:"bcsName,omitempty"`
	Type       string           `json:"type"` // DynamicField / DynamicObject
	ObjectType string           `json:"objectType"`
	ObjectID   string           `json:"objectId"`
	Version    Uint64           `json:"version"`
	Digest     string           `json:"digest"`
}

// DynamicFieldPage 动态字段分页结果
type DynamicFieldPage struct {
	Data        []DynamicFieldInfo `json:"data"`
	NextCursor  *string            `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}

// ExecutionStatus 执行状态
type ExecutionStatus struct {
	Status string `json:"status"` // success / failure
	Error  string `json:"error,omitempty"`
}

// Succeeded 是否执行成功
func (s ExecutionStatus) Succeeded() bool {
	return s.Status == "success"
}

// TransactionEffects 交易效果(仅保留客户端关心的字段)
type TransactionEffects struct {
	Status            ExecutionStatus `json:"status"`
	TransactionDigest string          `json:"transactionDigest,omitempty"`
}

// ExecutionResult devInspect 中单条命令的执行结果
type ExecutionResult struct {
	ReturnValues []ReturnValue `json:"returnValues,omitempty"`
}

// DevInspectResults 模拟执行结果
type DevInspectResults struct {
	Effects TransactionEffects `json:"effects"`
	Results []ExecutionResult  `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// TransactionBlockResponse 交易提交结果
type TransactionBlockResponse struct {
	Digest  string              `json:"digest"`
	Effects *TransactionEffects `json:"effects,omitempty"`
	Errors  []string            `json:"errors,omitempty"`
}

// Balance 余额
type Balance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    Uint64 `json:"totalBalance"`
}

// Coin 币对象
type Coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      Uint64 `json:"version"`
	Digest       string `json:"digest"`
	Balance      Uint64 `json:"balance"`
}

// CoinPage 币对象分页结果
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}
