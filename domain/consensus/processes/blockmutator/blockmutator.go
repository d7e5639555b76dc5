package blockmutator

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/regtestkit/blockforge/domain/consensus/model"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockbuilder"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/consensus/utils/merkle"
	"github.com/regtestkit/blockforge/infrastructure/logger"
)

// MutatedBlock is a block breaking exactly one consensus rule, along with
// the rejection reason a node is expected to report for it.
type MutatedBlock struct {
	Block        *wire.MsgBlock
	RejectReason string
	Rule         Rule
}

// Mutator builds mutated blocks. It is safe for concurrent use.
type Mutator struct {
	builder *blockbuilder.BlockBuilder
}

// New instantiates a new Mutator building its blocks with builder
func New(builder *blockbuilder.BlockBuilder) *Mutator {
	return &Mutator{builder: builder}
}

// Mutate builds a block on top of chainState and breaks the rule
// identified by tag. overrides apply to the underlying valid block the
// same way they apply to BlockBuilder.BuildBlock.
func (m *Mutator) Mutate(tag string, chainState *model.ChainState, extraTransactions []*wire.MsgTx,
	overrides ...blockbuilder.Override) (*MutatedBlock, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "Mutate")
	defer onEnd()

	rule, ok := RuleByTag(tag)
	if !ok {
		return nil, ruleerrors.Errorf(ruleerrors.ErrUnknownMutation, "unknown mutation %q", tag)
	}
	if len(extraTransactions) < rule.MinExtraTransactions {
		return nil, ruleerrors.Errorf(ruleerrors.ErrMutationPrecondition,
			"mutation %s needs at least %d extra transactions, got %d",
			tag, rule.MinExtraTransactions, len(extraTransactions))
	}

	block, err := m.mutate(rule, chainState, extraTransactions, overrides)
	if err != nil {
		return nil, err
	}

	log.Infof("Built block %s breaking %s", block.BlockHash(), rule.Tag)
	return &MutatedBlock{
		Block:        block,
		RejectReason: rule.Tag,
		Rule:         rule,
	}, nil
}

func (m *Mutator) mutate(rule Rule, chainState *model.ChainState, extraTransactions []*wire.MsgTx,
	overrides []blockbuilder.Override) (*wire.MsgBlock, error) {

	if rule.assemble != nil {
		return rule.assemble(m.builder, chainState, extraTransactions, overrides)
	}

	block, err := m.builder.BuildBlock(nil, chainState, extraTransactions, overrides...)
	if err != nil {
		return nil, err
	}
	err = rule.transform(block)
	if err != nil {
		return nil, err
	}

	if rule.RecomputeMerkleRoot {
		block.Header.MerkleRoot = merkle.CalculateHashMerkleRoot(block.Transactions)
	}
	if rule.RecomputeProofOfWork {
		err = m.builder.MineBlock(block)
		if err != nil {
			return nil, err
		}
	}
	return block, nil
}
