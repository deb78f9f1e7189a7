package inspect

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/bcs"
)

// ErrDecode 返回值无法按期望类型解码
var ErrDecode = errors.New("decode return value")

func first(values []transport.ReturnValue) (transport.ReturnValue, error) {
	if len(values) == 0 {
		return transport.ReturnValue{}, ErrNoReturnValue
	}
	return values[0], nil
}

// decodeUint 按字节宽度解码无符号整数(u8/u16/u32/u64)
func decodeUint(v transport.ReturnValue) (uint64, error) {
	d := bcs.NewDecoder(v.Bytes)
	var (
		out uint64
		err error
	)
	switch len(v.Bytes) {
	case 1:
		var x uint8
		x, err = d.U8()
		out = uint64(x)
	case 2:
		var x uint16
		x, err = d.U16()
		out = uint64(x)
	case 4:
		var x uint32
		x, err = d.U32()
		out = uint64(x)
	case 8:
		out, err = d.U64()
	default:
		return 0, fmt.Errorf("%w: %d bytes is not an unsigned integer (type %s)", ErrDecode, len(v.Bytes), v.Type)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out, nil
}

// DecodeU64 解码第一个返回值为 u64
func DecodeU64(values []transport.ReturnValue) (uint64, error) {
	v, err := first(values)
	if err != nil {
		return 0, err
	}
	if len(v.Bytes) != 8 {
		return 0, fmt.Errorf("%w: u64 needs 8 bytes, got %d", ErrDecode, len(v.Bytes))
	}
	return decodeUint(v)
}

// DecodeU16 解码第一个返回值为 u16
func DecodeU16(values []transport.ReturnValue) (uint16, error) {
	v, err := first(values)
	if err != nil {
		return 0, err
	}
	if len(v.Bytes) != 2 {
		return 0, fmt.Errorf("%w: u16 needs 2 bytes, got %d", ErrDecode, len(v.Bytes))
	}
	n, err := decodeUint(v)
	return uint16(n), err
}

// DecodeBool 解码第一个返回值为 bool
func DecodeBool(values []transport.ReturnValue) (bool, error) {
	v, err := first(values)
	if err != nil {
		return false, err
	}
	d := bcs.NewDecoder(v.Bytes)
	b, err := d.Bool()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := d.Done(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// DecodeAddress 解码第一个返回值为地址/ID
func DecodeAddress(values []transport.ReturnValue) (string, error) {
	v, err := first(values)
	if err != nil {
		return "", err
	}
	d := bcs.NewDecoder(v.Bytes)
	addr, err := d.Address()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return "0x" + hex.EncodeToString(addr[:]), nil
}

// DecodeU64Pair 解码规则配置二元组，如 (fee_bp: u16, min_fee: u64)
//
// 兼容两种形态：函数返回两个独立值，或者返回单个值内连续编码的两个整数。
func DecodeU64Pair(values []transport.ReturnValue) (uint64, uint64, error) {
	switch {
	case len(values) >= 2:
		a, err := decodeUint(values[0])
		if err != nil {
			return 0, 0, err
		}
		b, err := decodeUint(values[1])
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	case len(values) == 1 && len(values[0].Bytes) == 10:
		d := bcs.NewDecoder(values[0].Bytes)
		a, err := d.U16()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		b, err := d.U64()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return uint64(a), b, nil
	case len(values) == 1 && len(values[0].Bytes) == 16:
		d := bcs.NewDecoder(values[0].Bytes)
		a, err := d.U64()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		b, err := d.U64()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return a, b, nil
	case len(values) == 0:
		return 0, 0, ErrNoReturnValue
	default:
		return 0, 0, fmt.Errorf("%w: cannot read pair from %d bytes", ErrDecode, len(values[0].Bytes))
	}
}
