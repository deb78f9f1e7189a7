package config

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ZeroAddress 全零地址，用作只读模拟调用的发送方
const ZeroAddress = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ClockObjectID 系统时钟共享对象
const ClockObjectID = "0x6"

// NormalizeAddress 将地址规范化为 0x + 64 位小写十六进制
//
// 短地址(如 0x2)左侧补零；非法输入原样返回小写形式，由调用方决定如何处理。
func NormalizeAddress(addr string) string {
	s := strings.ToLower(strings.TrimSpace(addr))
	s = strings.TrimPrefix(s, "0x")
	if len(s) > 64 {
		return "0x" + s
	}
	return "0x" + strings.Repeat("0", 64-len(s)) + s
}

// ParseAddress 解析地址为32字节
func ParseAddress(addr string) ([32]byte, error) {
	var out [32]byte
	norm := NormalizeAddress(addr)
	if len(norm) != 66 {
		return out, fmt.Errorf("invalid address %q: too long", addr)
	}
	b, err := hex.DecodeString(norm[2:])
	if err != nil {
		return out, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	copy(out[:], b)
	return out, nil
}

// SameAddress 比较两个地址是否指向同一账户/对象
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}
