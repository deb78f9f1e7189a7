package builder

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ===== 参数 =====

// ArgumentKind 命令参数类型
type ArgumentKind uint8

const (
	ArgGasCoin      ArgumentKind = iota // Gas币
	ArgInput                            // 第 i 个输入
	ArgResult                           // 第 i 条命令的返回值
	ArgNestedResult                     // 第 i 条命令返回元组中的第 j 项
)

// Argument 命令参数
//
// 同一交易包内命令之间只能通过 Result/NestedResult 引用彼此的输出。
type Argument struct {
	Kind   ArgumentKind
	Index  uint16
	Nested uint16
}

// GasCoin 引用支付Gas的币对象
func GasCoin() Argument {
	return Argument{Kind: ArgGasCoin}
}

// Item 引用返回元组中的第 j 项，仅对 Result 有意义，其他类型原样返回
func (a Argument) Item(j uint16) Argument {
	if a.Kind != ArgResult {
		return a
	}
	return Argument{Kind: ArgNestedResult, Index: a.Index, Nested: j}
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgInput:
		return fmt.Sprintf("Input(%d)", a.Index)
	case ArgResult:
		return fmt.Sprintf("Result(%d)", a.Index)
	case ArgNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.Index, a.Nested)
	default:
		return "Unknown"
	}
}

// MarshalJSON 与节点交易展示一致的形式
func (a Argument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgGasCoin:
		return json.Marshal("GasCoin")
	case ArgInput:
		return json.Marshal(map[string]uint16{"Input": a.Index})
	case ArgResult:
		return json.Marshal(map[string]uint16{"Result": a.Index})
	case ArgNestedResult:
		return json.Marshal(map[string][2]uint16{"NestedResult": {a.Index, a.Nested}})
	default:
		return nil, fmt.Errorf("unknown argument kind %d", a.Kind)
	}
}

// ===== 输入 =====

// InputKind 输入类型
type InputKind string

const (
	InputPure   InputKind = "pure"   // BCS 编码的纯值
	InputObject InputKind = "object" // 对象引用，提交前解析版本与所有权
)

// Input 交易包输入
type Input struct {
	Kind     InputKind `json:"type"`
	Bytes    []byte    `json:"-"`
	ObjectID string    `json:"objectId,omitempty"`
	Mutable  bool      `json:"mutable,omitempty"`
}

func (in Input) MarshalJSON() ([]byte, error) {
	type alias Input
	out := struct {
		alias
		Value string `json:"bytes,omitempty"`
	}{alias: alias(in)}
	if in.Kind == InputPure {
		out.Value = base64.StdEncoding.EncodeToString(in.Bytes)
	}
	return json.Marshal(out)
}

// ===== 命令 =====

// CommandKind 命令类型
type CommandKind string

const (
	CmdMoveCall        CommandKind = "MoveCall"
	CmdTransferObjects CommandKind = "TransferObjects"
	CmdSplitCoins      CommandKind = "SplitCoins"
	CmdMergeCoins      CommandKind = "MergeCoins"
	CmdMakeMoveVec     CommandKind = "MakeMoveVec"
)

// Command 交易包中的一条命令
//
// Arguments 的含义随命令类型变化：
//   - MoveCall: 调用参数
//   - TransferObjects: 待转移对象，Target 参数为接收方
//   - SplitCoins: 拆分金额，Target 参数为被拆分的币
//   - MergeCoins: 被合并的币，Target 参数为目标币
//   - MakeMoveVec: 向量元素
type Command struct {
	Kind          CommandKind `json:"kind"`
	Function      string      `json:"function,omitempty"` // pkg::module::function
	TypeArguments []string    `json:"typeArguments,omitempty"`
	Arguments     []Argument  `json:"arguments"`
	Target        *Argument   `json:"target,omitempty"`
	ElementType   string      `json:"elementType,omitempty"`
}

func (c Command) clone() Command {
	out := c
	out.TypeArguments = append([]string(nil), c.TypeArguments...)
	out.Arguments = append([]Argument(nil), c.Arguments...)
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	return out
}

// ===== 错误定义 =====

var (
	ErrNotDeployed     = newTxError("contract not deployed in environment")
	ErrInvalidArgument = newTxError("invalid argument")
	ErrEmptyBundle     = newTxError("bundle has no commands")
	ErrObjectInput     = newTxError("cannot resolve object input")
)

// TxError 交易构建错误
type TxError struct {
	message string
}

func newTxError(message string) *TxError {
	return &TxError{message: message}
}

func (e *TxError) Error() string {
	return e.message
}
