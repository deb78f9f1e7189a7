// Package bcs 实现链上使用的 BCS (Binary Canonical Serialization) 编解码
//
// 只覆盖客户端需要的子集：定长无符号整数、布尔、ULEB128 长度前缀、
// 变长字节序列以及 32 字节地址。所有整数均为小端序。
package bcs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

// AddressLength 地址与对象ID的字节长度
const AddressLength = 32

var (
	// ErrUnexpectedEOF 输入字节不足
	ErrUnexpectedEOF = errors.New("bcs: unexpected end of input")
	// ErrOverflow ULEB128 超出 uint32 范围或数值超出目标宽度
	ErrOverflow = errors.New("bcs: value overflow")
)

// Encoder 追加式 BCS 编码器，零值可直接使用
type Encoder struct {
	buf []byte
}

// NewEncoder 创建编码器
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes 返回已编码的字节
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) U8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

func (e *Encoder) U16(v uint16) *Encoder {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
	return e
}

func (e *Encoder) U32(v uint32) *Encoder {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
	return e
}

func (e *Encoder) U64(v uint64) *Encoder {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	return e
}

// U128 编码 16 字节小端整数，v 必须非负且不超过 128 位
func (e *Encoder) U128(v *big.Int) error {
	return e.bigUint(v, 16)
}

// U256 编码 32 字节小端整数
func (e *Encoder) U256(v *big.Int) error {
	return e.bigUint(v, 32)
}

func (e *Encoder) bigUint(v *big.Int, width int) error {
	if v.Sign() < 0 || v.BitLen() > width*8 {
		return fmt.Errorf("%w: %s does not fit in %d bytes", ErrOverflow, v.String(), width)
	}
	be := v.FillBytes(make([]byte, width))
	for i := width - 1; i >= 0; i-- {
		e.buf = append(e.buf, be[i])
	}
	return nil
}

func (e *Encoder) Bool(v bool) *Encoder {
	if v {
		return e.U8(1)
	}
	return e.U8(0)
}

// ULEB128 编码长度或枚举标签
func (e *Encoder) ULEB128(v uint32) *Encoder {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
	return e
}

// Variant 编码枚举变体标签
func (e *Encoder) Variant(idx uint32) *Encoder {
	return e.ULEB128(idx)
}

// VecU8 编码带长度前缀的字节序列 (vector<u8>)
func (e *Encoder) VecU8(v []byte) *Encoder {
	e.ULEB128(uint32(len(v)))
	e.buf = append(e.buf, v...)
	return e
}

// String 编码 UTF-8 字符串
func (e *Encoder) String(s string) *Encoder {
	return e.VecU8([]byte(s))
}

// Fixed 直接写入定长字节，不带长度前缀
func (e *Encoder) Fixed(v []byte) *Encoder {
	e.buf = append(e.buf, v...)
	return e
}

// Address 编码 32 字节地址
func (e *Encoder) Address(addr [AddressLength]byte) *Encoder {
	return e.Fixed(addr[:])
}

// Option 编码可选值：absent 写 0，present 写 1 后调用 f
func (e *Encoder) Option(present bool, f func(*Encoder)) *Encoder {
	if !present {
		return e.U8(0)
	}
	e.U8(1)
	f(e)
	return e
}

// Vec 编码长度前缀后依次调用 f 编码每个元素
func (e *Encoder) Vec(n int, f func(i int, e *Encoder)) *Encoder {
	e.ULEB128(uint32(n))
	for i := 0; i < n; i++ {
		f(i, e)
	}
	return e
}

// 以下函数生成单个值的编码，供纯参数(pure input)使用

func U8(v uint8) []byte   { return NewEncoder().U8(v).Bytes() }
func U16(v uint16) []byte { return NewEncoder().U16(v).Bytes() }
func U32(v uint32) []byte { return NewEncoder().U32(v).Bytes() }
func U64(v uint64) []byte { return NewEncoder().U64(v).Bytes() }
func Bool(v bool) []byte  { return NewEncoder().Bool(v).Bytes() }

// String 编码字符串
func String(s string) []byte { return NewEncoder().String(s).Bytes() }

// VecU8 编码 vector<u8>
func VecU8(v []byte) []byte { return NewEncoder().VecU8(v).Bytes() }

// Address 编码地址
func Address(addr [AddressLength]byte) []byte { return NewEncoder().Address(addr).Bytes() }
