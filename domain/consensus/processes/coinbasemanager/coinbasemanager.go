package coinbasemanager

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/netparams"
)

// CoinbaseReservedValueSize is the size of the witness element every
// coinbase is built with. The witness commitment is later derived from it.
const CoinbaseReservedValueSize = 32

// CoinbaseManager builds coinbase transactions for a network.
type CoinbaseManager struct {
	params *netparams.Params
}

// New instantiates a new CoinbaseManager
func New(params *netparams.Params) *CoinbaseManager {
	return &CoinbaseManager{params: params}
}

// ExpectedCoinbaseTransaction returns the coinbase of a block at the given
// height: a single input spending the null outpoint with the height in its
// signature script, a single unspendable output carrying the block subsidy,
// and a witness holding a zeroed reserved value.
func (c *CoinbaseManager) ExpectedCoinbaseTransaction(height int64) (*wire.MsgTx, error) {
	if height < 0 || height > math.MaxInt32 {
		return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"coinbase height %d is out of range [0, %d]", height, math.MaxInt32)
	}

	subsidy := CalcBlockSubsidy(height, c.params)
	if subsidy > btcutil.MaxSatoshi {
		return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"subsidy %d at height %d is above the maximum of %d satoshi", subsidy, height, int64(btcutil.MaxSatoshi))
	}

	signatureScript, err := HeightScript(height)
	if err != nil {
		return nil, err
	}
	scriptPubKey, err := txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).Script()
	if err != nil {
		return nil, err
	}

	coinbase := wire.NewMsgTx(1)
	coinbase.LockTime = uint32(height)
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		SignatureScript:  signatureScript,
		Witness:          wire.TxWitness{make([]byte, CoinbaseReservedValueSize)},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	coinbase.AddTxOut(wire.NewTxOut(int64(subsidy), scriptPubKey))

	return coinbase, nil
}
