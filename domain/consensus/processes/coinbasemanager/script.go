package coinbasemanager

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

const (
	// smallHeightLimit is the largest height pushed with a single opcode.
	smallHeightLimit = 16

	// maxHeightPushLength is the longest push a height that fits in an
	// int32 can take as a script number.
	maxHeightPushLength = 5
)

// HeightScript returns the coinbase signature script encoding height.
// Heights up to 16 are pushed with a single small-integer opcode and are
// followed by OP_TRUE, since nodes require coinbase signature scripts to be
// at least two bytes long. Larger heights use a minimal script number push.
func HeightScript(height int64) ([]byte, error) {
	builder := txscript.NewScriptBuilder().AddInt64(height)
	if height <= smallHeightLimit {
		builder.AddOp(txscript.OP_TRUE)
	}
	script, err := builder.Script()
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build the coinbase script for height %d", height)
	}
	return script, nil
}

// ExtractCoinbaseHeight returns the height encoded at the start of the
// signature script of coinbase.
func ExtractCoinbaseHeight(coinbase *wire.MsgTx) (int64, error) {
	if len(coinbase.TxIn) != 1 {
		return 0, errors.Errorf("coinbase has %d inputs, expected 1", len(coinbase.TxIn))
	}
	script := coinbase.TxIn[0].SignatureScript
	if len(script) == 0 {
		return 0, errors.New("coinbase signature script is empty")
	}

	opcode := script[0]
	switch {
	case opcode == txscript.OP_0:
		return 0, nil
	case opcode >= txscript.OP_1 && opcode <= txscript.OP_16:
		return int64(opcode - (txscript.OP_1 - 1)), nil
	case opcode < txscript.OP_DATA_1 || opcode > maxHeightPushLength:
		return 0, errors.Errorf("coinbase signature script starts with opcode %#x "+
			"which doesn't push a height", opcode)
	}

	pushLength := int(opcode)
	if len(script) < 1+pushLength {
		return 0, errors.Errorf("coinbase signature script is %d bytes, too short "+
			"for a %d byte height push", len(script), pushLength)
	}
	data := script[1 : 1+pushLength]
	if data[pushLength-1]&0x80 != 0 {
		return 0, errors.Errorf("coinbase height push %x is negative", data)
	}

	// Script numbers are little endian.
	var height int64
	for i := pushLength - 1; i >= 0; i-- {
		height = height<<8 | int64(data[i])
	}
	return height, nil
}
