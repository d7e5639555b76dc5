// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// CoinbaseTransactionIndex is the index of the coinbase transaction in every block
const CoinbaseTransactionIndex = 0

// BlockToHex returns the hex encoding of the wire serialization of block,
// witness data included. This is the form submitblock expects.
func BlockToHex(block *wire.MsgBlock) (string, error) {
	var buf bytes.Buffer
	buf.Grow(block.SerializeSize())
	err := block.Serialize(&buf)
	if err != nil {
		return "", errors.Wrapf(err, "failed to serialize block %s", block.BlockHash())
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// BlockFromHex decodes a block from the hex encoding of its wire
// serialization.
func BlockFromHex(blockHex string) (*wire.MsgBlock, error) {
	serialized, err := decodeHex(blockHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode block hex")
	}
	block := &wire.MsgBlock{}
	reader := bytes.NewReader(serialized)
	err = block.Deserialize(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize block")
	}
	if reader.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after block %s", reader.Len(), block.BlockHash())
	}
	return block, nil
}

// TransactionToHex returns the hex encoding of the wire serialization of
// tx, witness data included.
func TransactionToHex(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	err := tx.Serialize(&buf)
	if err != nil {
		return "", errors.Wrapf(err, "failed to serialize transaction %s", tx.TxHash())
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// TransactionFromHex decodes a transaction from the hex encoding of its
// wire serialization, as returned by signrawtransactionwithwallet.
func TransactionFromHex(txHex string) (*wire.MsgTx, error) {
	serialized, err := decodeHex(txHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction hex")
	}
	tx := &wire.MsgTx{}
	reader := bytes.NewReader(serialized)
	err = tx.Deserialize(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize transaction")
	}
	if reader.Len() != 0 {
		return nil, errors.Errorf("%d trailing bytes after transaction %s", reader.Len(), tx.TxHash())
	}
	return tx, nil
}

// TransactionsFromHex decodes every element of txHexes with
// TransactionFromHex, keeping their order.
func TransactionsFromHex(txHexes []string) ([]*wire.MsgTx, error) {
	transactions := make([]*wire.MsgTx, len(txHexes))
	for i, txHex := range txHexes {
		tx, err := TransactionFromHex(txHex)
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		transactions[i] = tx
	}
	return transactions, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimSpace(s))
}
