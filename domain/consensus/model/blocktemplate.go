package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BlockTemplate holds optional header and body values for a block to be
// built. A nil field is unset and falls back to a value derived from the
// ChainState or from the network parameters.
type BlockTemplate struct {
	Version       *int32
	PrevBlockHash *chainhash.Hash

	// Timestamp is in Unix seconds.
	Timestamp *int64

	// Height is the height of the block being built, not of its parent.
	Height *int64

	Bits *uint32

	// Transactions are the non-coinbase transactions of the block.
	Transactions []*wire.MsgTx
}

// Clone returns a deep copy of the template fields. Transactions are
// shared since the block forge never modifies them.
func (t *BlockTemplate) Clone() *BlockTemplate {
	if t == nil {
		return &BlockTemplate{}
	}
	clone := &BlockTemplate{}
	if t.Version != nil {
		version := *t.Version
		clone.Version = &version
	}
	if t.PrevBlockHash != nil {
		prevBlockHash := *t.PrevBlockHash
		clone.PrevBlockHash = &prevBlockHash
	}
	if t.Timestamp != nil {
		timestamp := *t.Timestamp
		clone.Timestamp = &timestamp
	}
	if t.Height != nil {
		height := *t.Height
		clone.Height = &height
	}
	if t.Bits != nil {
		bits := *t.Bits
		clone.Bits = &bits
	}
	if t.Transactions != nil {
		clone.Transactions = append([]*wire.MsgTx(nil), t.Transactions...)
	}
	return clone
}
