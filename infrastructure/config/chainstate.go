package config

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/model"
)

// ChainStateFlags describe the chain tip a block is built on, as reported
// by getblockchaininfo.
type ChainStateFlags struct {
	Height        int64  `long:"height" description:"Height of the current chain tip (getblockcount)"`
	BestBlockHash string `long:"best-block-hash" description:"Hash of the current chain tip (getbestblockhash)"`
	MedianTime    int64  `long:"median-time" description:"Median time past of the chain tip, in Unix seconds"`
	Bits          string `long:"bits" description:"Compact difficulty target in hex, e.g. 207fffff (default: the regtest limit)"`
}

// ChainState converts the flags into a ChainState.
func (chainStateFlags *ChainStateFlags) ChainState() (*model.ChainState, error) {
	if chainStateFlags.Height < 0 {
		return nil, errors.Errorf("--height must not be negative, got %d", chainStateFlags.Height)
	}

	chainState := &model.ChainState{
		Height:     chainStateFlags.Height,
		MedianTime: chainStateFlags.MedianTime,
	}
	if chainStateFlags.BestBlockHash != "" {
		bestBlockHash, err := chainhash.NewHashFromStr(chainStateFlags.BestBlockHash)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --best-block-hash %s", chainStateFlags.BestBlockHash)
		}
		chainState.BestBlockHash = *bestBlockHash
	}
	if chainStateFlags.Bits != "" {
		bits, err := parseBits(chainStateFlags.Bits)
		if err != nil {
			return nil, err
		}
		chainState.Bits = bits
	}
	return chainState, nil
}
