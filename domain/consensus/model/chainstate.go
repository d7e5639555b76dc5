package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ChainState is a snapshot of the node's chain tip, supplied by whoever
// talks to the node. The block forge never queries the node itself.
type ChainState struct {
	// Height is the height of the current best block.
	Height int64

	// BestBlockHash is the hash of the current best block.
	BestBlockHash chainhash.Hash

	// MedianTime is the median time past of the best block, in Unix
	// seconds.
	MedianTime int64

	// Bits is the difficulty the next block must satisfy, in compact form.
	// Zero means the network's minimum difficulty.
	Bits uint32
}
