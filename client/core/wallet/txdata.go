package wallet

import (
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/pkg/bcs"
)

// intentTransactionData 意图前缀: scope=TransactionData, version=V0, app=Sui
var intentTransactionData = []byte{0, 0, 0}

const transactionDataSalt = "TransactionData::"

// GasData 交易的 Gas 参数
type GasData struct {
	Payment []builder.ObjectRef
	Owner   string
	Price   uint64
	Budget  uint64
}

// EncodeTransactionData 编码 TransactionData::V1，kind 为已编码的 TransactionKind
func EncodeTransactionData(kind []byte, sender string, gas GasData) ([]byte, error) {
	senderAddr, err := config.ParseAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	ownerAddr, err := config.ParseAddress(gas.Owner)
	if err != nil {
		return nil, fmt.Errorf("gas owner: %w", err)
	}
	if len(gas.Payment) == 0 {
		return nil, ErrNoGasCoins
	}

	e := bcs.NewEncoder()
	e.Variant(0) // V1
	e.Fixed(kind)
	e.Address(senderAddr)
	e.ULEB128(uint32(len(gas.Payment)))
	for _, ref := range gas.Payment {
		if err := ref.Encode(e); err != nil {
			return nil, fmt.Errorf("gas payment: %w", err)
		}
	}
	e.Address(ownerAddr).U64(gas.Price).U64(gas.Budget)
	e.Variant(0) // TransactionExpiration::None
	return e.Bytes(), nil
}

// IntentDigest 签名摘要 blake2b-256(intent || txBytes)
func IntentDigest(txBytes []byte) []byte {
	h, _ := blake2b.New256(nil)
	h.Write(intentTransactionData)
	h.Write(txBytes)
	return h.Sum(nil)
}

// TransactionDigest 交易摘要的 base58 表示，与节点返回的 digest 一致
func TransactionDigest(txBytes []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(transactionDataSalt))
	h.Write(txBytes)
	return base58.Encode(h.Sum(nil))
}
