package model

import "github.com/btcsuite/btcd/wire"

// CoinbaseManager builds the coinbase transaction of a block
type CoinbaseManager interface {
	ExpectedCoinbaseTransaction(height int64) (*wire.MsgTx, error)
}
