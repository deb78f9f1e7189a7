package builder

import (
	"fmt"
	"strings"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/pkg/bcs"
)

// TypeTag Move 类型
type TypeTag struct {
	Primitive string     // bool/u8/u16/u32/u64/u128/u256/address/signer，非原始类型时为空
	Vector    *TypeTag   // vector<T> 的元素类型
	Struct    *StructTag // 结构体类型
}

// StructTag 结构体类型 addr::module::Name<T...>
type StructTag struct {
	Address    string
	Module     string
	Name       string
	TypeParams []TypeTag
}

// String 以规范化地址输出
func (s StructTag) String() string {
	var sb strings.Builder
	sb.WriteString(config.NormalizeAddress(s.Address))
	sb.WriteString("::")
	sb.WriteString(s.Module)
	sb.WriteString("::")
	sb.WriteString(s.Name)
	if len(s.TypeParams) > 0 {
		sb.WriteString("<")
		for i, p := range s.TypeParams {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(">")
	}
	return sb.String()
}

func (t TypeTag) String() string {
	switch {
	case t.Struct != nil:
		return t.Struct.String()
	case t.Vector != nil:
		return "vector<" + t.Vector.String() + ">"
	default:
		return t.Primitive
	}
}

var primitiveVariants = map[string]uint32{
	"bool":    0,
	"u8":      1,
	"u64":     2,
	"u128":    3,
	"address": 4,
	"signer":  5,
	"u16":     8,
	"u32":     9,
	"u256":    10,
}

// ParseTypeTag 解析类型字符串，如 0x2::coin::Coin<0x2::sui::SUI>
func ParseTypeTag(s string) (TypeTag, error) {
	p := &typeParser{src: s}
	tag, err := p.parse()
	if err != nil {
		return TypeTag{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeTag{}, fmt.Errorf("%w: trailing input in type %q", ErrInvalidArgument, s)
	}
	return tag, nil
}

// ParseStructTag 解析结构体类型字符串
func ParseStructTag(s string) (StructTag, error) {
	tag, err := ParseTypeTag(s)
	if err != nil {
		return StructTag{}, err
	}
	if tag.Struct == nil {
		return StructTag{}, fmt.Errorf("%w: %q is not a struct type", ErrInvalidArgument, s)
	}
	return *tag.Struct, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// ident 读取到分隔符 : < > , 或空白为止
func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(":<>, ", rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(tok string) error {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], tok) {
		return fmt.Errorf("%w: expected %q at offset %d in type %q", ErrInvalidArgument, tok, p.pos, p.src)
	}
	p.pos += len(tok)
	return nil
}

func (p *typeParser) peek(tok string) bool {
	p.skipSpace()
	return strings.HasPrefix(p.src[p.pos:], tok)
}

func (p *typeParser) params() ([]TypeTag, error) {
	if !p.peek("<") {
		return nil, nil
	}
	p.pos++
	var out []TypeTag
	for {
		tag, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
		if p.peek(",") {
			p.pos++
			continue
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *typeParser) parse() (TypeTag, error) {
	word := p.ident()
	if word == "" {
		return TypeTag{}, fmt.Errorf("%w: empty type at offset %d in %q", ErrInvalidArgument, p.pos, p.src)
	}
	if word == "vector" {
		params, err := p.params()
		if err != nil {
			return TypeTag{}, err
		}
		if len(params) != 1 {
			return TypeTag{}, fmt.Errorf("%w: vector takes one type parameter in %q", ErrInvalidArgument, p.src)
		}
		return TypeTag{Vector: &params[0]}, nil
	}
	if _, ok := primitiveVariants[word]; ok && !p.peek("::") {
		return TypeTag{Primitive: word}, nil
	}

	st := StructTag{Address: word}
	if err := p.expect("::"); err != nil {
		return TypeTag{}, err
	}
	st.Module = p.ident()
	if err := p.expect("::"); err != nil {
		return TypeTag{}, err
	}
	st.Name = p.ident()
	if st.Module == "" || st.Name == "" {
		return TypeTag{}, fmt.Errorf("%w: incomplete struct type %q", ErrInvalidArgument, p.src)
	}
	params, err := p.params()
	if err != nil {
		return TypeTag{}, err
	}
	st.TypeParams = params
	return TypeTag{Struct: &st}, nil
}

// encode 写入 TypeTag 的 BCS 编码
func (t TypeTag) encode(e *bcs.Encoder) error {
	switch {
	case t.Struct != nil:
		addr, err := config.ParseAddress(t.Struct.Address)
		if err != nil {
			return err
		}
		e.Variant(7).Address(addr).String(t.Struct.Module).String(t.Struct.Name)
		e.ULEB128(uint32(len(t.Struct.TypeParams)))
		for _, p := range t.Struct.TypeParams {
			if err := p.encode(e); err != nil {
				return err
			}
		}
		return nil
	case t.Vector != nil:
		e.Variant(6)
		return t.Vector.encode(e)
	default:
		v, ok := primitiveVariants[t.Primitive]
		if !ok {
			return fmt.Errorf("%w: unknown primitive type %q", ErrInvalidArgument, t.Primitive)
		}
		e.Variant(v)
		return nil
	}
}
