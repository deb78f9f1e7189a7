package transport

import (
	"context"
	"errors"
	"fmt"
)

// PageLimit 分页查询的单页上限
const PageLimit = 50

// ErrCursorLoop 节点返回了已经出现过的游标
var ErrCursorLoop = errors.New("pagination cursor repeated")

// PageFunc 获取游标处的一页，返回下一页游标与是否还有下一页
type PageFunc func(ctx context.Context, cursor *string) (next *string, hasNext bool, err error)

// Paginate 从第一页开始依次获取，直到没有下一页
//
// 游标重复或节点声称有下一页却不给游标时返回错误，不会无限循环。
func Paginate(ctx context.Context, fetch PageFunc) error {
	var cursor *string
	seen := make(map[string]struct{})
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, hasNext, err := fetch(ctx, cursor)
		if err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		if !hasNext {
			return nil
		}
		if next == nil {
			return fmt.Errorf("page %d: has next page but no cursor", page)
		}
		if _, dup := seen[*next]; dup {
			return fmt.Errorf("%w: %s", ErrCursorLoop, *next)
		}
		seen[*next] = struct{}{}
		c := *next
		cursor = &c
	}
}
