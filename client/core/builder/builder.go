// Package builder 构建可编程交易包(PTB)
//
// Bundle 是未签名、未提交的有序命令集合。构建过程不访问网络：
// 对象输入只记录ID，版本与所有权由 Resolver 在提交或模拟前一次性解析。
// 相同的输入总是产生相同的交易包。
package builder

import (
	"encoding/json"
	"fmt"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/pkg/bcs"
)

// Bundle 交易包(草稿状态，可继续追加命令)
type Bundle struct {
	inputs    []Input
	commands  []Command
	objectIdx map[string]uint16
	gasBudget uint64
	sender    string
	err       error
}

// NewBundle 创建使用默认Gas预算的空交易包
func NewBundle() *Bundle {
	return &Bundle{
		objectIdx: make(map[string]uint16),
		gasBudget: config.DefaultGasBudget,
	}
}

// ===== 属性 =====

// GasBudget Gas预算(MIST)
func (b *Bundle) GasBudget() uint64 { return b.gasBudget }

// SetGasBudget 设置Gas预算
func (b *Bundle) SetGasBudget(budget uint64) *Bundle {
	b.gasBudget = budget
	return b
}

// Sender 发送方地址，未设置时由钱包填充
func (b *Bundle) Sender() string { return b.sender }

// SetSender 设置发送方
func (b *Bundle) SetSender(addr string) *Bundle {
	b.sender = addr
	return b
}

// Err 返回构建过程中记录的第一个参数错误
//
// 构建方法本身不返回错误，格式错误的参数在解析阶段才会暴露。
func (b *Bundle) Err() error { return b.err }

// Inputs 返回输入列表副本
func (b *Bundle) Inputs() []Input {
	out := make([]Input, len(b.inputs))
	for i, in := range b.inputs {
		out[i] = in
		out[i].Bytes = append([]byte(nil), in.Bytes...)
	}
	return out
}

// Commands 返回命令列表副本
func (b *Bundle) Commands() []Command {
	out := make([]Command, len(b.commands))
	for i, c := range b.commands {
		out[i] = c.clone()
	}
	return out
}

func (b *Bundle) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ===== 纯值输入 =====

// Pure 追加已编码的纯值输入
func (b *Bundle) Pure(encoded []byte) Argument {
	b.inputs = append(b.inputs, Input{Kind: InputPure, Bytes: append([]byte(nil), encoded...)})
	return Argument{Kind: ArgInput, Index: uint16(len(b.inputs) - 1)}
}

// PureU8 u8 输入
func (b *Bundle) PureU8(v uint8) Argument { return b.Pure(bcs.U8(v)) }

// PureU16 u16 输入
func (b *Bundle) PureU16(v uint16) Argument { return b.Pure(bcs.U16(v)) }

// PureU64 u64 输入
func (b *Bundle) PureU64(v uint64) Argument { return b.Pure(bcs.U64(v)) }

// PureBool bool 输入
func (b *Bundle) PureBool(v bool) Argument { return b.Pure(bcs.Bool(v)) }

// PureString 0x1::string::String 输入
func (b *Bundle) PureString(s string) Argument { return b.Pure(bcs.String(s)) }

// PureBytes vector<u8> 输入
func (b *Bundle) PureBytes(v []byte) Argument { return b.Pure(bcs.VecU8(v)) }

// PureOptionU64 Option<u64> 输入，nil 表示 None
func (b *Bundle) PureOptionU64(v *uint64) Argument {
	enc := bcs.NewEncoder().Option(v != nil, func(e *bcs.Encoder) { e.U64(*v) })
	return b.Pure(enc.Bytes())
}

// PureAddress address/ID 输入，地址非法时记录错误并以全零地址占位
func (b *Bundle) PureAddress(addr string) Argument {
	parsed, err := config.ParseAddress(addr)
	if err != nil {
		b.fail(fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}
	return b.Pure(bcs.Address(parsed))
}

// ===== 对象输入 =====

// Object 引用对象(共享对象按可变方式引用)
func (b *Bundle) Object(id string) Argument {
	return b.object(id, true)
}

// ImmutableObject 以只读方式引用共享对象(如系统时钟)
func (b *Bundle) ImmutableObject(id string) Argument {
	return b.object(id, false)
}

// Clock 引用系统时钟
func (b *Bundle) Clock() Argument {
	return b.ImmutableObject(config.ClockObjectID)
}

// object 同一对象在交易包内只占用一个输入，任一次可变引用即视为可变
func (b *Bundle) object(id string, mutable bool) Argument {
	if id == "" {
		b.fail(fmt.Errorf("%w: empty object id", ErrInvalidArgument))
	}
	key := config.NormalizeAddress(id)
	if idx, ok := b.objectIdx[key]; ok {
		if mutable {
			b.inputs[idx].Mutable = true
		}
		return Argument{Kind: ArgInput, Index: idx}
	}
	b.inputs = append(b.inputs, Input{Kind: InputObject, ObjectID: id, Mutable: mutable})
	idx := uint16(len(b.inputs) - 1)
	b.objectIdx[key] = idx
	return Argument{Kind: ArgInput, Index: idx}
}

// ===== 命令 =====

func (b *Bundle) add(cmd Command) Argument {
	b.commands = append(b.commands, cmd)
	return Argument{Kind: ArgResult, Index: uint16(len(b.commands) - 1)}
}

// MoveCall 追加函数调用，返回其结果引用
func (b *Bundle) MoveCall(function string, typeArgs []string, args ...Argument) Argument {
	if function == "" {
		b.fail(fmt.Errorf("%w: empty call target", ErrInvalidArgument))
	}
	return b.add(Command{
		Kind:          CmdMoveCall,
		Function:      function,
		TypeArguments: append([]string(nil), typeArgs...),
		Arguments:     append([]Argument(nil), args...),
	})
}

// SplitCoins 从 coin 中拆出若干金额，结果第 j 项为第 j 个新币
func (b *Bundle) SplitCoins(coin Argument, amounts ...Argument) Argument {
	return b.add(Command{
		Kind:      CmdSplitCoins,
		Arguments: append([]Argument(nil), amounts...),
		Target:    &coin,
	})
}

// MergeCoins 将 sources 合并进 dest
func (b *Bundle) MergeCoins(dest Argument, sources ...Argument) Argument {
	return b.add(Command{
		Kind:      CmdMergeCoins,
		Arguments: append([]Argument(nil), sources...),
		Target:    &dest,
	})
}

// TransferObjects 将对象转移给 recipient
func (b *Bundle) TransferObjects(objects []Argument, recipient Argument) Argument {
	return b.add(Command{
		Kind:      CmdTransferObjects,
		Arguments: append([]Argument(nil), objects...),
		Target:    &recipient,
	})
}

// MakeMoveVec 构造向量，elemType 为空时由元素推断
func (b *Bundle) MakeMoveVec(elemType string, elems ...Argument) Argument {
	return b.add(Command{
		Kind:        CmdMakeMoveVec,
		Arguments:   append([]Argument(nil), elems...),
		ElementType: elemType,
	})
}

// MarshalJSON 导出未签名交易包供外部展示或签名
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sender    string    `json:"sender,omitempty"`
		GasBudget uint64    `json:"gasBudget,string"`
		Inputs    []Input   `json:"inputs"`
		Commands  []Command `json:"commands"`
	}{
		Sender:    b.sender,
		GasBudget: b.gasBudget,
		Inputs:    b.Inputs(),
		Commands:  b.Commands(),
	})
}
