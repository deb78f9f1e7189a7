package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
)

// JSONRPCClient JSON-RPC 2.0 客户端实现
type JSONRPCClient struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

var _ Client = (*JSONRPCClient)(nil)

// NewJSONRPCClient 创建JSON-RPC客户端，timeout 为 0 时使用 30s
func NewJSONRPCClient(endpoint string, timeout time.Duration) *JSONRPCClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &JSONRPCClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Endpoint 返回节点地址
func (c *JSONRPCClient) Endpoint() string {
	return c.endpoint
}

// jsonrpcRequest JSON-RPC 2.0 请求
type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// jsonrpcResponse JSON-RPC 2.0 响应
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// RPCError 节点返回的 JSON-RPC 错误
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// call 统一的JSON-RPC调用方法
func (c *JSONRPCClient) call(ctx context.Context, method string, params []interface{}, result interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveRPC(method, start, err) }()

	if params == nil {
		params = []interface{}{}
	}
	req := &jsonrpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && len(respBody) == 0 {
		return fmt.Errorf("http status %d", resp.StatusCode)
	}

	var jsonResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &jsonResp); err != nil {
		return fmt.Errorf("unmarshal response (http %d): %w", resp.StatusCode, err)
	}

	if jsonResp.Error != nil {
		return jsonResp.Error
	}

	if result != nil && len(jsonResp.Result) > 0 {
		if err := json.Unmarshal(jsonResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// ===== 接口实现 =====

func (c *JSONRPCClient) GetObject(ctx context.Context, objectID string, options *ObjectDataOptions) (*ObjectResponse, error) {
	if options == nil {
		options = FullObjectOptions()
	}
	var result ObjectResponse
	if err := c.call(ctx, "sui_getObject", []interface{}{objectID, options}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) MultiGetObjects(ctx context.Context, objectIDs []string, options *ObjectDataOptions) ([]*ObjectResponse, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	if options == nil {
		options = FullObjectOptions()
	}
	var result []*ObjectResponse
	if err := c.call(ctx, "sui_multiGetObjects", []interface{}{objectIDs, options}, &result); err != nil {
		return nil, err
	}
	if len(result) != len(objectIDs) {
		return nil, fmt.Errorf("multiGetObjects: requested %d objects, got %d", len(objectIDs), len(result))
	}
	return result, nil
}

func (c *JSONRPCClient) GetOwnedObjects(ctx context.Context, owner string, query *ObjectResponseQuery, cursor *string, limit int) (*ObjectsPage, error) {
	if query == nil {
		query = &ObjectResponseQuery{Options: FullObjectOptions()}
	}
	var result ObjectsPage
	if err := c.call(ctx, "suix_getOwnedObjects", []interface{}{owner, query, cursor, limitParam(limit)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit int) (*DynamicFieldPage, error) {
	var result DynamicFieldPage
	if err := c.call(ctx, "suix_getDynamicFields", []interface{}{parentID, cursor, limitParam(limit)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) DevInspectTransactionBlock(ctx context.Context, sender string, txKindBase64 string) (*DevInspectResults, error) {
	var result DevInspectResults
	if err := c.call(ctx, "sui_devInspectTransactionBlock", []interface{}{sender, txKindBase64}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) ExecuteTransactionBlock(ctx context.Context, txBytesBase64 string, signatures []string) (*TransactionBlockResponse, error) {
	options := map[string]bool{"showEffects": true}
	var result TransactionBlockResponse
	if err := c.call(ctx, "sui_executeTransactionBlock",
		[]interface{}{txBytesBase64, signatures, options, "WaitForLocalExecution"}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) GetBalance(ctx context.Context, owner string, coinType string) (*Balance, error) {
	params := []interface{}{owner}
	if coinType != "" {
		params = append(params, coinType)
	}
	var result Balance
	if err := c.call(ctx, "suix_getBalance", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) GetCoins(ctx context.Context, owner string, coinType string, cursor *string, limit int) (*CoinPage, error) {
	var ct interface{}
	if coinType != "" {
		ct = coinType
	}
	var result CoinPage
	if err := c.call(ctx, "suix_getCoins", []interface{}{owner, ct, cursor, limitParam(limit)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var result Uint64
	if err := c.call(ctx, "suix_getReferenceGasPrice", nil, &result); err != nil {
		return 0, err
	}
	return uint64(result), nil
}

func (c *JSONRPCClient) CallRaw(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.call(ctx, method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *JSONRPCClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// limitParam 非正数时交由节点使用默认页大小
func limitParam(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return json.Number(strconv.Itoa(limit))
}
