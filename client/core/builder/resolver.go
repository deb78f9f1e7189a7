package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/bcs"
)

// ObjectRef 已解析的拥有对象引用
type ObjectRef struct {
	ObjectID string
	Version  uint64
	Digest   string // base58
}

// Encode 写入 ObjectRef 的 BCS 编码 (ID, SequenceNumber, ObjectDigest)
func (r ObjectRef) Encode(e *bcs.Encoder) error {
	id, err := config.ParseAddress(r.ObjectID)
	if err != nil {
		return err
	}
	digest, err := base58.Decode(r.Digest)
	if err != nil {
		return fmt.Errorf("decode digest of %s: %w", r.ObjectID, err)
	}
	if len(digest) != 32 {
		return fmt.Errorf("digest of %s has %d bytes, want 32", r.ObjectID, len(digest))
	}
	e.Address(id).U64(r.Version).VecU8(digest)
	return nil
}

// ResolvedInput 解析后的对象输入
type ResolvedInput struct {
	Shared               bool
	Ref                  ObjectRef // 拥有对象或不可变对象
	InitialSharedVersion uint64    // 共享对象
	Mutable              bool
}

// Resolver 解析交易包的对象输入并生成 BCS 编码的 TransactionKind
//
// 这是交易包提交或模拟前唯一需要网络访问的步骤。
type Resolver struct {
	client transport.Client
}

// NewResolver 创建解析器
func NewResolver(client transport.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolveObjects 一次批量请求获取所有对象输入的元数据
func (r *Resolver) ResolveObjects(ctx context.Context, b *Bundle) (map[int]ResolvedInput, error) {
	var (
		ids     []string
		indexes []int
	)
	for i, in := range b.inputs {
		if in.Kind == InputObject {
			ids = append(ids, in.ObjectID)
			indexes = append(indexes, i)
		}
	}
	resolved := make(map[int]ResolvedInput, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	resps, err := r.client.MultiGetObjects(ctx, ids, &transport.ObjectDataOptions{ShowOwner: true})
	if err != nil {
		return nil, fmt.Errorf("fetch object inputs: %w", err)
	}
	if len(resps) != len(ids) {
		return nil, fmt.Errorf("fetch object inputs: requested %d objects, got %d", len(ids), len(resps))
	}

	for k, resp := range resps {
		obj, err := resp.Object()
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrObjectInput, ids[k], err)
		}
		in := b.inputs[indexes[k]]
		if obj.Owner.IsShared() {
			resolved[indexes[k]] = ResolvedInput{
				Shared:               true,
				InitialSharedVersion: uint64(obj.Owner.Shared.InitialSharedVersion),
				Mutable:              in.Mutable,
				Ref:                  ObjectRef{ObjectID: obj.ObjectID},
			}
			continue
		}
		resolved[indexes[k]] = ResolvedInput{
			Ref: ObjectRef{ObjectID: obj.ObjectID, Version: uint64(obj.Version), Digest: obj.Digest},
		}
	}
	return resolved, nil
}

// ResolveKind 解析对象输入并编码 TransactionKind::ProgrammableTransaction
func (r *Resolver) ResolveKind(ctx context.Context, b *Bundle) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.commands) == 0 {
		return nil, ErrEmptyBundle
	}
	resolved, err := r.ResolveObjects(ctx, b)
	if err != nil {
		return nil, err
	}
	return EncodeKind(b, resolved)
}

// EncodeKind 用已解析的对象输入编码交易包
func EncodeKind(b *Bundle, resolved map[int]ResolvedInput) ([]byte, error) {
	e := bcs.NewEncoder()
	e.Variant(0) // ProgrammableTransaction

	e.ULEB128(uint32(len(b.inputs)))
	for i, in := range b.inputs {
		switch in.Kind {
		case InputPure:
			e.Variant(0).VecU8(in.Bytes)
		case InputObject:
			obj, ok := resolved[i]
			if !ok {
				return nil, fmt.Errorf("%w %s: not resolved", ErrObjectInput, in.ObjectID)
			}
			e.Variant(1)
			if obj.Shared {
				id, err := config.ParseAddress(obj.Ref.ObjectID)
				if err != nil {
					return nil, err
				}
				e.Variant(1).Address(id).U64(obj.InitialSharedVersion).Bool(obj.Mutable)
				continue
			}
			e.Variant(0)
			if err := obj.Ref.Encode(e); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: input %d has unknown kind %q", ErrInvalidArgument, i, in.Kind)
		}
	}

	e.ULEB128(uint32(len(b.commands)))
	for i, cmd := range b.commands {
		if err := encodeCommand(e, cmd); err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
	}
	return e.Bytes(), nil
}

func encodeArgs(e *bcs.Encoder, args []Argument) {
	e.ULEB128(uint32(len(args)))
	for _, a := range args {
		encodeArg(e, a)
	}
}

func encodeArg(e *bcs.Encoder, a Argument) {
	e.Variant(uint32(a.Kind))
	switch a.Kind {
	case ArgInput, ArgResult:
		e.U16(a.Index)
	case ArgNestedResult:
		e.U16(a.Index).U16(a.Nested)
	}
}

func encodeCommand(e *bcs.Encoder, cmd Command) error {
	switch cmd.Kind {
	case CmdMoveCall:
		parts := strings.Split(cmd.Function, "::")
		if len(parts) != 3 {
			return fmt.Errorf("%w: call target %q", ErrInvalidArgument, cmd.Function)
		}
		pkg, err := config.ParseAddress(parts[0])
		if err != nil {
			return err
		}
		e.Variant(0).Address(pkg).String(parts[1]).String(parts[2])
		e.ULEB128(uint32(len(cmd.TypeArguments)))
		for _, ta := range cmd.TypeArguments {
			tag, err := ParseTypeTag(ta)
			if err != nil {
				return err
			}
			if err := tag.encode(e); err != nil {
				return err
			}
		}
		encodeArgs(e, cmd.Arguments)
	case CmdTransferObjects:
		e.Variant(1)
		encodeArgs(e, cmd.Arguments)
		encodeArg(e, *cmd.Target)
	case CmdSplitCoins:
		e.Variant(2)
		encodeArg(e, *cmd.Target)
		encodeArgs(e, cmd.Arguments)
	case CmdMergeCoins:
		e.Variant(3)
		encodeArg(e, *cmd.Target)
		encodeArgs(e, cmd.Arguments)
	case CmdMakeMoveVec:
		e.Variant(5)
		var elem TypeTag
		if cmd.ElementType != "" {
			tag, err := ParseTypeTag(cmd.ElementType)
			if err != nil {
				return err
			}
			elem = tag
		}
		var encErr error
		e.Option(cmd.ElementType != "", func(e *bcs.Encoder) { encErr = elem.encode(e) })
		if encErr != nil {
			return encErr
		}
		encodeArgs(e, cmd.Arguments)
	default:
		return fmt.Errorf("%w: unknown command kind %q", ErrInvalidArgument, cmd.Kind)
	}
	return nil
}
