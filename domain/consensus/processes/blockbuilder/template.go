package blockbuilder

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/regtestkit/blockforge/domain/consensus/model"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/consensus/utils/pow"
)

// Override sets a single block field, taking precedence over both the
// template and the computed default.
type Override func(*model.BlockTemplate)

// WithVersion overrides the header version.
func WithVersion(version int32) Override {
	return func(t *model.BlockTemplate) { t.Version = &version }
}

// WithPrevBlockHash overrides the parent the block is built on.
func WithPrevBlockHash(prevBlockHash chainhash.Hash) Override {
	return func(t *model.BlockTemplate) { t.PrevBlockHash = &prevBlockHash }
}

// WithTimestamp overrides the header timestamp, in Unix seconds.
func WithTimestamp(timestamp int64) Override {
	return func(t *model.BlockTemplate) { t.Timestamp = &timestamp }
}

// WithHeight overrides the height encoded in the coinbase.
func WithHeight(height int64) Override {
	return func(t *model.BlockTemplate) { t.Height = &height }
}

// WithBits overrides the compact difficulty target.
func WithBits(bits uint32) Override {
	return func(t *model.BlockTemplate) { t.Bits = &bits }
}

type resolvedTemplate struct {
	version       int32
	prevBlockHash chainhash.Hash
	timestamp     int64
	height        int64
	bits          uint32
	transactions  []*wire.MsgTx
}

func (bb *BlockBuilder) resolveTemplate(template *model.BlockTemplate, chainState *model.ChainState,
	extraTransactions []*wire.MsgTx, overrides []Override) (*resolvedTemplate, error) {

	if chainState == nil {
		return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField, "missing chain state")
	}

	// Overrides are applied onto a copy of the template, so from here on a
	// set field means "override or template" and nil means "default".
	merged := template.Clone()
	for _, override := range overrides {
		override(merged)
	}

	resolved := &resolvedTemplate{
		version:       bb.params.BlockVersion,
		prevBlockHash: chainState.BestBlockHash,
		height:        chainState.Height + 1,
		bits:          bb.params.PowLimitBits,
	}
	if chainState.Bits != 0 {
		resolved.bits = chainState.Bits
	}
	if merged.Version != nil {
		resolved.version = *merged.Version
	}
	if merged.PrevBlockHash != nil {
		resolved.prevBlockHash = *merged.PrevBlockHash
	}
	if merged.Height != nil {
		resolved.height = *merged.Height
	}
	if merged.Bits != nil {
		resolved.bits = *merged.Bits
	}
	if merged.Timestamp != nil {
		resolved.timestamp = *merged.Timestamp
	} else {
		resolved.timestamp = bb.defaultTimestamp(chainState)
	}

	transactions := merged.Transactions
	if len(extraTransactions) > 0 {
		transactions = extraTransactions
	}
	resolved.transactions = make([]*wire.MsgTx, len(transactions))
	for i, tx := range transactions {
		if tx == nil {
			return nil, ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField, "transaction %d is nil", i)
		}
		// Copied so that nothing done to the block reaches the caller's
		// transactions.
		resolved.transactions[i] = tx.Copy()
	}

	err := bb.validateResolvedTemplate(resolved)
	if err != nil {
		return nil, err
	}

	log.Tracef("Resolved template: version %d, parent %s, timestamp %d, height %d, bits %08x, %d transactions",
		resolved.version, resolved.prevBlockHash, resolved.timestamp, resolved.height, resolved.bits,
		len(resolved.transactions))
	return resolved, nil
}

// defaultTimestamp returns max(median time + 1, now). Nodes reject blocks
// whose timestamp is not after the median time of the past blocks.
func (bb *BlockBuilder) defaultTimestamp(chainState *model.ChainState) int64 {
	timestamp := bb.timeSource().Unix()
	if minTimestamp := chainState.MedianTime + 1; timestamp < minTimestamp {
		timestamp = minTimestamp
	}
	return timestamp
}

func (bb *BlockBuilder) validateResolvedTemplate(resolved *resolvedTemplate) error {
	if resolved.height < 0 || resolved.height > math.MaxInt32 {
		return ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"height %d is out of range [0, %d]", resolved.height, math.MaxInt32)
	}
	// Header timestamps are serialized as unsigned 32 bit seconds.
	if resolved.timestamp <= 0 || resolved.timestamp > math.MaxUint32 {
		return ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
			"timestamp %d is out of range [1, %d]", resolved.timestamp, uint32(math.MaxUint32))
	}
	_, err := pow.Target(resolved.bits, bb.params.PowLimit)
	return err
}
