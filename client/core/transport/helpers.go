package transport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Uint64 兼容字符串与数字两种JSON表示的无符号整数
// 节点对 u64 通常返回十进制字符串，个别字段返回数字
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

func (u *Uint64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = 0
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, ok := parseUint64(v)
	if !ok {
		return fmt.Errorf("invalid uint64 value %s", string(data))
	}
	*u = Uint64(parsed)
	return nil
}

// parseUint64 解析字符串、JSON数字或原生整数
func parseUint64(val interface{}) (uint64, bool) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "0x") {
			parsed, err := strconv.ParseUint(s[2:], 16, 64)
			return parsed, err == nil
		}
		parsed, err := strconv.ParseUint(s, 10, 64)
		return parsed, err == nil
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case json.Number:
		parsed, err := strconv.ParseUint(v.String(), 10, 64)
		return parsed, err == nil
	case uint64:
		return v, true
	case int64:
		return uint64(v), v >= 0
	case int:
		return uint64(v), v >= 0
	default:
		return 0, false
	}
}

// FieldUint64 从 Move 字段中读取 u64(字符串或数字)
func FieldUint64(fields map[string]interface{}, key string) (uint64, bool) {
	val, ok := fields[key]
	if !ok {
		return 0, false
	}
	return parseUint64(val)
}

// FieldString 读取字符串字段
// 兼容 0x1::string::String 被展开为 {"bytes": ...} 的情况
func FieldString(fields map[string]interface{}, key string) (string, bool) {
	switch v := fields[key].(type) {
	case string:
		return v, true
	case map[string]interface{}:
		if inner, ok := FieldStruct(fields, key); ok {
			if s, ok := inner["bytes"].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// FieldBool 读取布尔字段
func FieldBool(fields map[string]interface{}, key string) (bool, bool) {
	v, ok := fields[key].(bool)
	return v, ok
}

// FieldID 读取对象ID字段
// 兼容直接的地址字符串、UID 的 {"id": "0x.."} 以及 {"id": {"id": "0x.."}} 嵌套
func FieldID(fields map[string]interface{}, key string) (string, bool) {
	switch v := fields[key].(type) {
	case string:
		return v, v != ""
	case map[string]interface{}:
		if id, ok := v["id"]; ok {
			return FieldID(map[string]interface{}{"id": id}, "id")
		}
		if inner, ok := FieldStruct(fields, key); ok {
			return FieldID(inner, "id")
		}
	}
	return "", false
}

// FieldStruct 读取嵌套结构体字段
// 节点将嵌套结构体表示为 {"type": "...", "fields": {...}}
func FieldStruct(fields map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := fields[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	if inner, ok := v["fields"].(map[string]interface{}); ok {
		return inner, true
	}
	return v, true
}

// FieldOption 读取 Option<T> 字段，返回内部值；None 时返回 nil, true
func FieldOption(fields map[string]interface{}, key string) (interface{}, bool) {
	v, ok := fields[key]
	if !ok {
		return nil, false
	}
	if v == nil {
		return nil, true
	}
	if m, ok := v.(map[string]interface{}); ok {
		if inner, ok := m["fields"].(map[string]interface{}); ok {
			if vec, ok := inner["vec"].([]interface{}); ok {
				if len(vec) == 0 {
					return nil, true
				}
				return vec[0], true
			}
		}
	}
	return v, true
}

// Owner 对象所有者
// JSON 形式为 {"AddressOwner": "0x.."}、{"ObjectOwner": "0x.."}、
// {"Shared": {"initial_shared_version": n}} 或字符串 "Immutable"
type Owner struct {
	AddressOwner string
	ObjectOwner  string
	Shared       *SharedOwner
	Immutable    bool
}

// SharedOwner 共享对象的所有权信息
type SharedOwner struct {
	InitialSharedVersion Uint64 `json:"initial_shared_version"`
}

// IsShared 是否为共享对象
func (o *Owner) IsShared() bool {
	return o != nil && o.Shared != nil
}

type ownerJSON struct {
	AddressOwner string       `json:"AddressOwner,omitempty"`
	ObjectOwner  string       `json:"ObjectOwner,omitempty"`
	Shared       *SharedOwner `json:"Shared,omitempty"`
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if o.Immutable {
		return json.Marshal("Immutable")
	}
	return json.Marshal(ownerJSON{
		AddressOwner: o.AddressOwner,
		ObjectOwner:  o.ObjectOwner,
		Shared:       o.Shared,
	})
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Immutable" {
			return fmt.Errorf("unknown owner kind %q", s)
		}
		*o = Owner{Immutable: true}
		return nil
	}

	var raw ownerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal owner: %w", err)
	}
	*o = Owner{
		AddressOwner: raw.AddressOwner,
		ObjectOwner:  raw.ObjectOwner,
		Shared:       raw.Shared,
	}
	return nil
}

// ReturnValue 模拟调用的单个返回值：BCS字节与Move类型
// JSON 形式为 [[u8, u8, ...], "type"]
type ReturnValue struct {
	Bytes []byte
	Type  string
}

func (r ReturnValue) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(r.Bytes))
	for i, b := range r.Bytes {
		ints[i] = int(b)
	}
	return json.Marshal([]interface{}{ints, r.Type})
}

func (r *ReturnValue) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal return value: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("unmarshal return value: expected 2 elements, got %d", len(raw))
	}

	var ints []int
	if err := json.Unmarshal(raw[0], &ints); err != nil {
		return fmt.Errorf("unmarshal return value bytes: %w", err)
	}
	bytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("return value byte out of range: %d", v)
		}
		bytes[i] = byte(v)
	}

	var typ string
	if err := json.Unmarshal(raw[1], &typ); err != nil {
		return fmt.Errorf("unmarshal return value type: %w", err)
	}

	r.Bytes = bytes
	r.Type = typ
	return nil
}
