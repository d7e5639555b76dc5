package testutils

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// CreateTransaction returns a deterministic single-input, single-output
// transaction. Different seeds yield different transaction ids. Transactions
// created with withWitness spend a P2WSH anyone-can-spend output and carry a
// witness, so their witness id differs from their id.
func CreateTransaction(seed byte, withWitness bool) *wire.MsgTx {
	prevTxID := chainhash.DoubleHashH([]byte{seed})
	scriptPubKey, witnessScript := OpTrueScript()

	tx := wire.NewMsgTx(wire.TxVersion)
	txIn := wire.NewTxIn(wire.NewOutPoint(&prevTxID, uint32(seed)), nil, nil)
	if withWitness {
		txIn.Witness = wire.TxWitness{witnessScript}
	}
	tx.AddTxIn(txIn)
	tx.AddTxOut(wire.NewTxOut(int64(seed)*1000+1000, scriptPubKey))
	return tx
}

// CreateTransactions returns count distinct transactions from
// CreateTransaction, starting at seed 1.
func CreateTransactions(count int, withWitness bool) []*wire.MsgTx {
	transactions := make([]*wire.MsgTx, count)
	for i := range transactions {
		transactions[i] = CreateTransaction(byte(i+1), withWitness)
	}
	return transactions
}
