package blockmutator

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/model"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockbuilder"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/consensus/utils/pow"
	"github.com/regtestkit/blockforge/domain/consensus/utils/witnesscommitment"
)

// Rejection reasons reported by nodes for each mutation.
const (
	TagBadTxnMrklRoot        = "bad-txnmrklroot"
	TagBadTxnsDuplicate      = "bad-txns-duplicate"
	TagBadWitnessNonceSize   = "bad-witness-nonce-size"
	TagBadWitnessMerkleMatch = "bad-witness-merkle-match"
	TagUnexpectedWitness     = "unexpected-witness"
)

// Rule is a way to make an otherwise valid block break exactly one
// consensus rule.
type Rule struct {
	// Tag is the rejection reason a node reports for the mutated block.
	Tag string

	Description string

	// RecomputeMerkleRoot and RecomputeProofOfWork tell whether the merkle
	// root and the nonce are derived again after the block is changed.
	RecomputeMerkleRoot  bool
	RecomputeProofOfWork bool

	// MinExtraTransactions is the number of non-coinbase transactions the
	// rule needs.
	MinExtraTransactions int

	// Exactly one of transform and assemble is set. transform changes a
	// valid block in place. assemble builds the mutated block from the
	// ingredients of a valid one.
	transform func(block *wire.MsgBlock) error
	assemble  func(builder *blockbuilder.BlockBuilder, chainState *model.ChainState,
		extraTransactions []*wire.MsgTx, overrides []blockbuilder.Override) (*wire.MsgBlock, error)
}

var rules = []Rule{
	{
		Tag:         TagBadTxnMrklRoot,
		Description: "flip one bit of the header merkle root",
		transform:   flipMerkleRootBit,
	},
	{
		Tag: TagBadTxnsDuplicate,
		Description: "repeat the last transaction, which keeps the merkle root of an odd " +
			"transaction list unchanged",
		RecomputeMerkleRoot:  true,
		RecomputeProofOfWork: true,
		MinExtraTransactions: 2,
		assemble:             assembleWithDuplicateTransaction,
	},
	{
		Tag:                  TagBadWitnessNonceSize,
		Description:          "push an extra element onto the coinbase witness",
		RecomputeMerkleRoot:  true,
		RecomputeProofOfWork: true,
		transform:            pushCoinbaseWitnessElement,
	},
	{
		Tag:                  TagBadWitnessMerkleMatch,
		Description:          "flip the last byte of the witness commitment",
		RecomputeMerkleRoot:  true,
		RecomputeProofOfWork: true,
		transform:            corruptWitnessCommitment,
	},
	{
		Tag:                  TagUnexpectedWitness,
		Description:          "drop the witness commitment while keeping witness data",
		RecomputeMerkleRoot:  true,
		RecomputeProofOfWork: true,
		transform:            dropWitnessCommitment,
	},
}

// Rules returns copies of all the mutation rules, in a fixed order.
// Changing them doesn't affect Mutate.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// RuleByTag returns a copy of the rule with the given tag.
func RuleByTag(tag string) (Rule, bool) {
	for _, rule := range rules {
		if rule.Tag == tag {
			return rule, true
		}
	}
	return Rule{}, false
}

// flipMerkleRootBit flips the lowest bit of the merkle root that keeps the
// existing nonce valid, so that the block fails on its merkle root alone.
// On regtest about half the bits qualify.
func flipMerkleRootBit(block *wire.MsgBlock) error {
	header := &block.Header
	for bit := 0; bit < len(header.MerkleRoot)*8; bit++ {
		mask := byte(1) << (bit % 8)
		header.MerkleRoot[bit/8] ^= mask
		if pow.CheckProofOfWorkByBits(header) {
			log.Debugf("Flipped merkle root bit %d", bit)
			return nil
		}
		header.MerkleRoot[bit/8] ^= mask
	}
	return ruleerrors.Errorf(ruleerrors.ErrProofOfWorkExhausted,
		"no single bit flip of merkle root %s keeps the header below target %08x",
		header.MerkleRoot, header.Bits)
}

// assembleWithDuplicateTransaction builds the block [coinbase, A, B, B]
// from the first two extra transactions A and B. Since the merkle tree
// duplicates the last node of odd levels anyway, the result shares its
// merkle root, and its witness commitment, with [coinbase, A, B].
func assembleWithDuplicateTransaction(builder *blockbuilder.BlockBuilder, chainState *model.ChainState,
	extraTransactions []*wire.MsgTx, overrides []blockbuilder.Override) (*wire.MsgBlock, error) {

	first, second := extraTransactions[0], extraTransactions[1]
	validBlock, err := builder.BuildBlock(nil, chainState, []*wire.MsgTx{first, second}, overrides...)
	if err != nil {
		return nil, err
	}

	// Pinning the timestamp makes both headers identical as well.
	duplicateOverrides := append(append([]blockbuilder.Override(nil), overrides...),
		blockbuilder.WithTimestamp(validBlock.Header.Timestamp.Unix()))
	mutatedBlock, err := builder.BuildBlock(nil, chainState, []*wire.MsgTx{first, second, second},
		duplicateOverrides...)
	if err != nil {
		return nil, err
	}

	if validBlock.Header.MerkleRoot != mutatedBlock.Header.MerkleRoot {
		return nil, errors.Errorf("merkle root %s of the block with a duplicate transaction differs from "+
			"the merkle root %s of the block without it", mutatedBlock.Header.MerkleRoot,
			validBlock.Header.MerkleRoot)
	}
	return mutatedBlock, nil
}

func pushCoinbaseWitnessElement(block *wire.MsgBlock) error {
	coinbaseInput := block.Transactions[0].TxIn[0]
	coinbaseInput.Witness = append(coinbaseInput.Witness, []byte{0x00})
	return nil
}

func corruptWitnessCommitment(block *wire.MsgBlock) error {
	output := block.Transactions[0].TxOut[0]
	if !witnesscommitment.IsCommitmentScript(output.PkScript) {
		return ruleerrors.Errorf(ruleerrors.ErrCommitmentComputation,
			"coinbase output 0 script %x carries no witness commitment", output.PkScript)
	}
	script := append([]byte(nil), output.PkScript...)
	script[len(script)-1] ^= 0x01
	output.PkScript = script
	return nil
}

func dropWitnessCommitment(block *wire.MsgBlock) error {
	script, err := txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).Script()
	if err != nil {
		return err
	}
	block.Transactions[0].TxOut[0].PkScript = script
	return nil
}
