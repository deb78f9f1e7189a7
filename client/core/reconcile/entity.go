package reconcile

import (
	"fmt"

	"github.com/suiticket/v1/client/core/transport"
)

// OrganizerCap 组织者权限凭证
type OrganizerCap struct {
	ID        string `json:"id"`
	ProfileID string `json:"profileId"`
	Type      string `json:"type"`
}

// UserCap 用户权限凭证
type UserCap struct {
	ID        string `json:"id"`
	ProfileID string `json:"profileId"`
	Type      string `json:"type"`
}

// OrganizerProfile 组织者资料(共享对象)
type OrganizerProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Treasury   uint64 `json:"treasury"`
	VerifiedAt uint64 `json:"verifiedAt"` // 0 表示未认证
	CreatedAt  uint64 `json:"createdAt"`
}

// Verified 是否已认证
func (p OrganizerProfile) Verified() bool { return p.VerifiedAt != 0 }

// UserProfile 用户资料(共享对象)
type UserProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt uint64 `json:"createdAt"`
}

// Activity 活动快照
type Activity struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	OrganizerProfileID string `json:"organizerProfileId"`
	TotalSupply        uint64 `json:"totalSupply"`
	TicketsSold        uint64 `json:"ticketsSold"`
	TicketPrice        uint64 `json:"ticketPrice"`
	SaleEndedAt        uint64 `json:"saleEndedAt"`
	CreatedAt          uint64 `json:"createdAt"`
}

// Remaining 剩余票数
func (a Activity) Remaining() uint64 {
	if a.TicketsSold >= a.TotalSupply {
		return 0
	}
	return a.TotalSupply - a.TicketsSold
}

// Ticket 门票，Protected 为 true 时门票被包装在保护对象中
type Ticket struct {
	ID         string `json:"id"`
	ActivityID string `json:"activityId"`
	RedeemedAt uint64 `json:"redeemedAt"` // 0 表示未核销
	Protected  bool   `json:"protected"`
	WrapperID  string `json:"wrapperId,omitempty"`
}

// Redeemed 是否已核销
func (t Ticket) Redeemed() bool { return t.RedeemedAt != 0 }

// ===== 字段投影 =====

func fieldsOf(obj *transport.ObjectData) (map[string]interface{}, error) {
	fields, err := obj.Fields()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obj.ObjectID, err)
	}
	return fields, nil
}

func requireID(fields map[string]interface{}, key, objectID string) (string, error) {
	id, ok := transport.FieldID(fields, key)
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s", ErrMalformed, objectID, key)
	}
	return id, nil
}

func optString(fields map[string]interface{}, key string) string {
	s, _ := transport.FieldString(fields, key)
	return s
}

func optUint64(fields map[string]interface{}, key string) uint64 {
	v, _ := transport.FieldUint64(fields, key)
	return v
}

// optTimestamp 兼容 u64 与 Option<u64> 两种表示
func optTimestamp(fields map[string]interface{}, key string) uint64 {
	if v, ok := transport.FieldUint64(fields, key); ok {
		return v
	}
	inner, ok := transport.FieldOption(fields, key)
	if !ok || inner == nil {
		return 0
	}
	v, _ := transport.FieldUint64(map[string]interface{}{key: inner}, key)
	return v
}

// balanceValue 读取 Balance<T> 字段，兼容 {"value": n} 包装与直接数值
func balanceValue(fields map[string]interface{}, key string) uint64 {
	if v, ok := transport.FieldUint64(fields, key); ok {
		return v
	}
	if inner, ok := transport.FieldStruct(fields, key); ok {
		return optUint64(inner, "value")
	}
	return 0
}

func parseCap(obj *transport.ObjectData) (id, profileID string, err error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return "", "", err
	}
	profileID, err = requireID(fields, "profile_id", obj.ObjectID)
	if err != nil {
		return "", "", err
	}
	return obj.ObjectID, profileID, nil
}

// ParseOrganizerProfile 从对象投影组织者资料
func ParseOrganizerProfile(obj *transport.ObjectData) (OrganizerProfile, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return OrganizerProfile{}, err
	}
	return OrganizerProfile{
		ID:         obj.ObjectID,
		Name:       optString(fields, "name"),
		Treasury:   balanceValue(fields, "treasury"),
		VerifiedAt: optTimestamp(fields, "verified_at"),
		CreatedAt:  optUint64(fields, "created_at"),
	}, nil
}

// ParseUserProfile 从对象投影用户资料
func ParseUserProfile(obj *transport.ObjectData) (UserProfile, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return UserProfile{}, err
	}
	return UserProfile{
		ID:        obj.ObjectID,
		Name:      optString(fields, "name"),
		CreatedAt: optUint64(fields, "created_at"),
	}, nil
}

// ParseActivity 从对象投影活动
func ParseActivity(obj *transport.ObjectData) (Activity, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return Activity{}, err
	}
	orgID, err := requireID(fields, "organizer_profile_id", obj.ObjectID)
	if err != nil {
		return Activity{}, err
	}
	return Activity{
		ID:                 obj.ObjectID,
		Name:               optString(fields, "name"),
		Description:        optString(fields, "description"),
		OrganizerProfileID: orgID,
		TotalSupply:        optUint64(fields, "total_supply"),
		TicketsSold:        optUint64(fields, "tickets_sold"),
		TicketPrice:        optUint64(fields, "ticket_price"),
		SaleEndedAt:        optUint64(fields, "sale_ended_at"),
		CreatedAt:          optUint64(fields, "created_at"),
	}, nil
}

// parseTicketFields 投影门票字段，id 为门票自身ID
func parseTicketFields(fields map[string]interface{}, id string) (Ticket, error) {
	activityID, err := requireID(fields, "activity_id", id)
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{
		ID:         id,
		ActivityID: activityID,
		RedeemedAt: optTimestamp(fields, "redeemed_at"),
	}, nil
}

// ParseTicket 投影未包装的门票
func ParseTicket(obj *transport.ObjectData) (Ticket, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return Ticket{}, err
	}
	return parseTicketFields(fields, obj.ObjectID)
}

// ParseProtectedTicket 投影保护对象中包装的门票
func ParseProtectedTicket(obj *transport.ObjectData) (Ticket, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return Ticket{}, err
	}
	inner, ok := transport.FieldStruct(fields, "ticket")
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s has no wrapped ticket", ErrMalformed, obj.ObjectID)
	}
	id, err := requireID(inner, "id", obj.ObjectID)
	if err != nil {
		return Ticket{}, err
	}
	t, err := parseTicketFields(inner, id)
	if err != nil {
		return Ticket{}, err
	}
	t.Protected = true
	t.WrapperID = obj.ObjectID
	return t, nil
}

// KioskOwnerCap Kiosk 所有权凭证
type KioskOwnerCap struct {
	ID      string `json:"id"`
	KioskID string `json:"kiosk_id"`
}

// ParseKioskOwnerCap 读取凭证的 for 字段
func ParseKioskOwnerCap(obj *transport.ObjectData) (KioskOwnerCap, error) {
	fields, err := fieldsOf(obj)
	if err != nil {
		return KioskOwnerCap{}, err
	}
	kioskID, err := requireID(fields, "for", obj.ObjectID)
	if err != nil {
		return KioskOwnerCap{}, err
	}
	return KioskOwnerCap{ID: obj.ObjectID, KioskID: kioskID}, nil
}
