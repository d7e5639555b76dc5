package testutils

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
)

// OpTrueScript returns a P2WSH script paying to an anyone-can-spend witness
// script. The second return value is the witness script itself, to be used
// as the last element of a spending witness.
func OpTrueScript() ([]byte, []byte) {
	witnessScript := []byte{txscript.OP_TRUE}
	scriptPubKey, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(chainhash.HashB(witnessScript)).
		Script()
	if err != nil {
		panic(errors.Wrapf(err, "Couldn't build opTrueScript. This should never happen"))
	}
	return scriptPubKey, witnessScript
}
