package witnesscommitment

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/consensus/utils/merkle"
)

const (
	// ReservedValueSize is the size of the coinbase witness element the
	// commitment hash is built from.
	ReservedValueSize = 32

	// CommitmentSize is the size of the data pushed by a commitment script:
	// the header followed by the commitment hash.
	CommitmentSize = len(CommitmentHeader) + chainhash.HashSize

	// ScriptSize is the size of a commitment script:
	// OP_RETURN OP_DATA_36 <header> <hash>.
	ScriptSize = 2 + CommitmentSize
)

// CommitmentHeader is the fixed prefix of the data pushed by a witness
// commitment script.
var CommitmentHeader = [4]byte{0xaa, 0x21, 0xa9, 0xed}

// scriptPrefix is what every commitment script starts with.
var scriptPrefix = []byte{
	txscript.OP_RETURN, txscript.OP_DATA_36,
	CommitmentHeader[0], CommitmentHeader[1], CommitmentHeader[2], CommitmentHeader[3],
}

// IsCommitmentScript returns whether script carries a witness commitment.
func IsCommitmentScript(script []byte) bool {
	return len(script) >= ScriptSize && bytes.HasPrefix(script, scriptPrefix)
}

// ReservedValue returns the coinbase witness reserved value. The coinbase
// must have a single input whose witness holds exactly one 32 byte element.
func ReservedValue(coinbase *wire.MsgTx) ([]byte, error) {
	if coinbase == nil {
		return nil, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation, "missing coinbase transaction")
	}
	if len(coinbase.TxIn) != 1 {
		return nil, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase has %d inputs, expected 1", len(coinbase.TxIn))
	}
	witness := coinbase.TxIn[0].Witness
	if len(witness) != 1 {
		return nil, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase witness has %d elements, expected 1", len(witness))
	}
	if len(witness[0]) != ReservedValueSize {
		return nil, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase reserved value is %d bytes, expected %d", len(witness[0]), ReservedValueSize)
	}
	return witness[0], nil
}

// Calculate returns the commitment hash for transactions, whose first
// element must be the coinbase:
// sha256d(witness merkle root || reserved value).
func Calculate(transactions []*wire.MsgTx) (chainhash.Hash, error) {
	if len(transactions) == 0 {
		return chainhash.Hash{}, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"can't calculate a witness commitment without transactions")
	}
	for i, tx := range transactions {
		if tx == nil {
			return chainhash.Hash{}, ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
				"transaction %d is nil", i)
		}
	}
	reservedValue, err := ReservedValue(transactions[0])
	if err != nil {
		return chainhash.Hash{}, err
	}

	witnessMerkleRoot := merkle.CalculateWitnessMerkleRoot(transactions)

	var preimage [chainhash.HashSize + ReservedValueSize]byte
	copy(preimage[:chainhash.HashSize], witnessMerkleRoot[:])
	copy(preimage[chainhash.HashSize:], reservedValue)
	return chainhash.DoubleHashH(preimage[:]), nil
}

// Script returns the coinbase output script carrying commitment.
func Script(commitment *chainhash.Hash) []byte {
	script := make([]byte, 0, ScriptSize)
	script = append(script, scriptPrefix...)
	return append(script, commitment[:]...)
}

// Apply computes the witness commitment of transactions and writes it into
// the first output of the coinbase, transactions[0]. A bare OP_RETURN output
// gets the commitment pushed after the OP_RETURN, and an output already
// carrying a commitment has it replaced. Any other output can't carry a
// commitment and is reported as an error.
//
// Apply changes the coinbase transaction id, so the block merkle root must
// be calculated after it.
func Apply(transactions []*wire.MsgTx) error {
	commitment, err := Calculate(transactions)
	if err != nil {
		return err
	}

	coinbase := transactions[0]
	if len(coinbase.TxOut) == 0 {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation, "coinbase has no outputs")
	}
	output := coinbase.TxOut[0]
	isBareOpReturn := len(output.PkScript) == 1 && output.PkScript[0] == txscript.OP_RETURN
	if !isBareOpReturn && !IsCommitmentScript(output.PkScript) {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase output 0 script %x can't carry a witness commitment", output.PkScript)
	}
	output.PkScript = Script(&commitment)

	log.Tracef("Applied witness commitment %s to coinbase %s", commitment, coinbase.TxHash())
	return nil
}

// Extract returns the commitment hash carried by the coinbase. When several
// outputs carry a commitment the last one counts.
func Extract(coinbase *wire.MsgTx) (chainhash.Hash, bool) {
	for i := len(coinbase.TxOut) - 1; i >= 0; i-- {
		script := coinbase.TxOut[i].PkScript
		if IsCommitmentScript(script) {
			var commitment chainhash.Hash
			copy(commitment[:], script[len(scriptPrefix):ScriptSize])
			return commitment, true
		}
	}
	return chainhash.Hash{}, false
}

// Validate checks that the coinbase of transactions carries the witness
// commitment matching transactions.
func Validate(transactions []*wire.MsgTx) error {
	if len(transactions) == 0 {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation, "no transactions to validate")
	}
	carried, ok := Extract(transactions[0])
	if !ok {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation, "coinbase carries no witness commitment")
	}
	expected, err := Calculate(transactions)
	if err != nil {
		return err
	}
	if carried != expected {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase commits to %s while the transactions commit to %s", carried, expected)
	}
	return nil
}
