package bcs

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Decoder 顺序读取 BCS 字节
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder 创建解码器
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining 剩余未读取的字节数
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, d.Remaining())
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) U64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 读取 16 字节小端整数
func (d *Decoder) U128() (*big.Int, error) {
	return d.bigUint(16)
}

// U256 读取 32 字节小端整数
func (d *Decoder) U256() (*big.Int, error) {
	return d.bigUint(32)
}

func (d *Decoder) bigUint(width int) (*big.Int, error) {
	b, err := d.take(width)
	if err != nil {
		return nil, err
	}
	be := make([]byte, width)
	for i := range b {
		be[width-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be), nil
}

// Bool 读取布尔值，仅接受 0 或 1
func (d *Decoder) Bool() (bool, error) {
	v, err := d.U8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("bcs: invalid bool byte 0x%02x", v)
	}
}

// ULEB128 读取长度或枚举标签
func (d *Decoder) ULEB128() (uint32, error) {
	var (
		value uint64
		shift uint
	)
	for {
		b, err := d.U8()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7f) << shift
		if value > 0xffffffff {
			return 0, ErrOverflow
		}
		if b&0x80 == 0 {
			return uint32(value), nil
		}
		shift += 7
		if shift > 28 {
			return 0, ErrOverflow
		}
	}
}

// VecU8 读取带长度前缀的字节序列
func (d *Decoder) VecU8() ([]byte, error) {
	n, err := d.ULEB128()
	if err != nil {
		return nil, err
	}
	b, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// String 读取 UTF-8 字符串
func (d *Decoder) String() (string, error) {
	b, err := d.VecU8()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Address 读取 32 字节地址
func (d *Decoder) Address() ([AddressLength]byte, error) {
	var addr [AddressLength]byte
	b, err := d.take(AddressLength)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// Done 检查输入已全部消费
func (d *Decoder) Done() error {
	if d.Remaining() != 0 {
		return fmt.Errorf("bcs: %d trailing bytes", d.Remaining())
	}
	return nil
}
