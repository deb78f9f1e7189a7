// Package reconcile 把链上对象(类型字符串 + 字段表)还原为应用层实体
//
// 资料对象没有直接索引，只能经由权限凭证两跳查找：
// 扫描账户拥有的对象找到凭证，读取其 profile_id，再获取资料对象。
// 任一跳缺失都得到"未注册"结果而不是错误，调用方据此提示注册。
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

var (
	// ErrMalformed 对象缺少必需字段
	ErrMalformed = errors.New("malformed object")
	// ErrUnexpectedType 对象类型与期望不符
	ErrUnexpectedType = errors.New("unexpected object type")
	// ErrEnvMismatch 会话环境与读取器绑定的环境不一致
	ErrEnvMismatch = errors.New("session environment mismatch")
)

// 未注册时返回的状态说明
const (
	StatusOrganizerNotRegistered = "尚未注册为活动组织者"
	StatusUserNotRegistered      = "尚未注册用户"
	StatusProfileMissing         = "资料对象不存在"
)

// OrganizerResult 组织者解析结果，Found 为 false 时 Status 说明原因
type OrganizerResult struct {
	Found   bool             `json:"found"`
	Cap     OrganizerCap     `json:"cap"`
	Profile OrganizerProfile `json:"profile"`
	Status  string           `json:"status,omitempty"`
}

// UserResult 用户解析结果，Found 为 false 时 Status 说明原因
type UserResult struct {
	Found   bool        `json:"found"`
	Cap     UserCap     `json:"cap"`
	Profile UserProfile `json:"profile"`
	Status  string      `json:"status,omitempty"`
}

// Reconciler 绑定单个网络环境的实体读取器
//
// 相同链上快照下重复调用产生相同结果。候选对象有多个时取节点枚举顺序中的第一个。
type Reconciler struct {
	client   transport.Client
	registry *config.Registry
	env      config.Environment
	logger   log.Logger
}

// New 创建读取器，logger 可为 nil
func New(client transport.Client, registry *config.Registry, env config.Environment, logger log.Logger) *Reconciler {
	if logger != nil {
		logger = logger.With("module", log.ModuleReconcile)
	}
	return &Reconciler{client: client, registry: registry, env: env, logger: logger}
}

// Env 绑定的网络环境
func (r *Reconciler) Env() config.Environment { return r.env }

func (r *Reconciler) filters(module, name string) []TypeFilter {
	return FiltersForAllVersions(r.registry, r.env, module, name)
}

func (r *Reconciler) owner(sess session.Context) (string, error) {
	if sess.Env != r.env {
		return "", fmt.Errorf("%w: %s != %s", ErrEnvMismatch, sess.Env, r.env)
	}
	return sess.RequireAccount()
}

func (r *Reconciler) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}

// ScanOwned 按节点枚举顺序遍历 owner 拥有的对象，visit 返回 false 时停止
func (r *Reconciler) ScanOwned(ctx context.Context, owner string, visit func(obj *transport.ObjectData) bool) error {
	query := &transport.ObjectResponseQuery{Options: transport.FullObjectOptions()}
	err := transport.Paginate(ctx, func(ctx context.Context, cursor *string) (*string, bool, error) {
		page, err := r.client.GetOwnedObjects(ctx, owner, query, cursor, transport.PageLimit)
		if err != nil {
			return nil, false, err
		}
		for _, resp := range page.Data {
			obj, err := resp.Object()
			if err != nil {
				continue
			}
			if !visit(obj) {
				return nil, false, nil
			}
		}
		return page.NextCursor, page.HasNextPage, nil
	})
	if err != nil {
		return fmt.Errorf("scan owned objects of %s: %w", owner, err)
	}
	return nil
}

// FindOwned 返回第一个类型匹配任一过滤器的拥有对象，不存在时返回 nil
func (r *Reconciler) FindOwned(ctx context.Context, owner string, filters ...TypeFilter) (*transport.ObjectData, error) {
	var found *transport.ObjectData
	err := r.ScanOwned(ctx, owner, func(obj *transport.ObjectData) bool {
		if MatchesAny(filters, obj.StructType()) {
			found = obj
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// fetch 获取对象，不存在时返回 nil 而非错误
func (r *Reconciler) fetch(ctx context.Context, id string) (*transport.ObjectData, error) {
	resp, err := r.client.GetObject(ctx, id, transport.FullObjectOptions())
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	obj, err := resp.Object()
	if errors.Is(err, transport.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if obj.Content == nil {
		return nil, nil
	}
	return obj, nil
}

// ResolveOrganizer 两跳解析当前账户的组织者凭证与资料
func (r *Reconciler) ResolveOrganizer(ctx context.Context, sess session.Context) (OrganizerResult, error) {
	owner, err := r.owner(sess)
	if err != nil {
		return OrganizerResult{}, err
	}

	capObj, err := r.FindOwned(ctx, owner, r.filters(config.ModuleOrganizer, config.StructOrganizerCap)...)
	if err != nil {
		return OrganizerResult{}, err
	}
	if capObj == nil {
		return OrganizerResult{Status: StatusOrganizerNotRegistered}, nil
	}
	capID, profileID, err := parseCap(capObj)
	if err != nil {
		r.debugf("组织者凭证无法解析: %v", err)
		return OrganizerResult{Status: StatusOrganizerNotRegistered}, nil
	}
	ocap := OrganizerCap{ID: capID, ProfileID: profileID, Type: capObj.StructType()}

	profObj, err := r.fetch(ctx, profileID)
	if err != nil {
		return OrganizerResult{}, err
	}
	if profObj == nil {
		return OrganizerResult{Cap: ocap, Status: StatusProfileMissing}, nil
	}
	profile, err := ParseOrganizerProfile(profObj)
	if err != nil {
		r.debugf("组织者资料无法解析: %v", err)
		return OrganizerResult{Cap: ocap, Status: StatusProfileMissing}, nil
	}
	return OrganizerResult{Found: true, Cap: ocap, Profile: profile}, nil
}

// ResolveUser 两跳解析当前账户的用户凭证与资料
func (r *Reconciler) ResolveUser(ctx context.Context, sess session.Context) (UserResult, error) {
	owner, err := r.owner(sess)
	if err != nil {
		return UserResult{}, err
	}

	capObj, err := r.FindOwned(ctx, owner, r.filters(config.ModuleUser, config.StructUserCap)...)
	if err != nil {
		return UserResult{}, err
	}
	if capObj == nil {
		return UserResult{Status: StatusUserNotRegistered}, nil
	}
	capID, profileID, err := parseCap(capObj)
	if err != nil {
		r.debugf("用户凭证无法解析: %v", err)
		return UserResult{Status: StatusUserNotRegistered}, nil
	}
	ucap := UserCap{ID: capID, ProfileID: profileID, Type: capObj.StructType()}

	profObj, err := r.fetch(ctx, profileID)
	if err != nil {
		return UserResult{}, err
	}
	if profObj == nil {
		return UserResult{Cap: ucap, Status: StatusProfileMissing}, nil
	}
	profile, err := ParseUserProfile(profObj)
	if err != nil {
		r.debugf("用户资料无法解析: %v", err)
		return UserResult{Cap: ucap, Status: StatusProfileMissing}, nil
	}
	return UserResult{Found: true, Cap: ucap, Profile: profile}, nil
}

// ProfileBalance 组织者资料中的待提取余额，未注册时 found 为 false
func (r *Reconciler) ProfileBalance(ctx context.Context, sess session.Context) (balance uint64, found bool, err error) {
	res, err := r.ResolveOrganizer(ctx, sess)
	if err != nil || !res.Found {
		return 0, false, err
	}
	return res.Profile.Treasury, true, nil
}

// Activity 读取活动快照
func (r *Reconciler) Activity(ctx context.Context, id string) (Activity, error) {
	obj, err := r.fetch(ctx, id)
	if err != nil {
		return Activity{}, err
	}
	if obj == nil {
		return Activity{}, fmt.Errorf("activity %s: %w", id, transport.ErrObjectNotFound)
	}
	if !MatchesAny(r.filters(config.ModuleActivity, config.StructActivity), obj.StructType()) {
		return Activity{}, fmt.Errorf("%w: %s is %s", ErrUnexpectedType, id, obj.StructType())
	}
	return ParseActivity(obj)
}

// parseAnyTicket 按对象类型在门票与保护对象之间分支
func (r *Reconciler) parseAnyTicket(obj *transport.ObjectData) (Ticket, bool, error) {
	typ := obj.StructType()
	switch {
	case MatchesAny(r.filters(config.ModuleTicket, config.StructTicket), typ):
		t, err := ParseTicket(obj)
		return t, true, err
	case MatchesAny(r.filters(config.ModuleTicket, config.StructProtectedTicket), typ):
		t, err := ParseProtectedTicket(obj)
		return t, true, err
	default:
		return Ticket{}, false, nil
	}
}

// Ticket 读取门票，id 可以是门票本身或其保护对象
func (r *Reconciler) Ticket(ctx context.Context, id string) (Ticket, error) {
	obj, err := r.fetch(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if obj == nil {
		return Ticket{}, fmt.Errorf("ticket %s: %w", id, transport.ErrObjectNotFound)
	}
	t, ok, err := r.parseAnyTicket(obj)
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s is %s", ErrUnexpectedType, id, obj.StructType())
	}
	return t, err
}

// OwnedTickets 当前账户持有的全部门票(含保护状态)，按节点枚举顺序
func (r *Reconciler) OwnedTickets(ctx context.Context, sess session.Context) ([]Ticket, error) {
	owner, err := r.owner(sess)
	if err != nil {
		return nil, err
	}
	var tickets []Ticket
	err = r.ScanOwned(ctx, owner, func(obj *transport.ObjectData) bool {
		t, ok, err := r.parseAnyTicket(obj)
		if !ok {
			return true
		}
		if err != nil {
			r.debugf("跳过无法解析的门票 %s: %v", obj.ObjectID, err)
			return true
		}
		tickets = append(tickets, t)
		return true
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// KioskCapFilter 框架 KioskOwnerCap 类型过滤器
var KioskCapFilter = TypeFilter{Package: config.FrameworkPackage, Module: config.FrameworkModuleKiosk, Struct: config.FrameworkStructKioskCap}

// KioskCap 查找账户持有的 Kiosk 凭证
//
// kioskID 非空时只接受指向该 Kiosk 的凭证；没有找到时 found 为 false。
func (r *Reconciler) KioskCap(ctx context.Context, sess session.Context, kioskID string) (kioskCap KioskOwnerCap, found bool, err error) {
	owner, err := r.owner(sess)
	if err != nil {
		return KioskOwnerCap{}, false, err
	}
	err = r.ScanOwned(ctx, owner, func(obj *transport.ObjectData) bool {
		if !KioskCapFilter.Matches(obj.StructType()) {
			return true
		}
		c, err := ParseKioskOwnerCap(obj)
		if err != nil {
			r.debugf("跳过无法解析的 Kiosk 凭证 %s: %v", obj.ObjectID, err)
			return true
		}
		if kioskID != "" && !config.SameAddress(c.KioskID, kioskID) {
			return true
		}
		kioskCap, found = c, true
		return false
	})
	return kioskCap, found, err
}
