package market

import (
	"context"
	"fmt"

	"github.com/suiticket/v1/client/core/transport"
)

// Pager 取回父对象的全部动态字段
type Pager struct {
	client transport.Client
	limit  int
}

// NewPager 创建分页器，limit 非正数时使用 transport.PageLimit
func NewPager(client transport.Client, limit int) *Pager {
	if limit <= 0 || limit > transport.PageLimit {
		limit = transport.PageLimit
	}
	return &Pager{client: client, limit: limit}
}

// All 按节点顺序拼接全部页，任何一页失败都返回错误而不是部分结果
func (p *Pager) All(ctx context.Context, parentID string) ([]transport.DynamicFieldInfo, error) {
	var out []transport.DynamicFieldInfo
	err := transport.Paginate(ctx, func(ctx context.Context, cursor *string) (*string, bool, error) {
		page, err := p.client.GetDynamicFields(ctx, parentID, cursor, p.limit)
		if err != nil {
			return nil, false, err
		}
		out = append(out, page.Data...)
		return page.NextCursor, page.HasNextPage, nil
	})
	if err != nil {
		return nil, fmt.Errorf("dynamic fields of %s: %w", parentID, err)
	}
	return out, nil
}
