package blockbuilder

import (
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/model"
	"github.com/regtestkit/blockforge/domain/consensus/processes/coinbasemanager"
	"github.com/regtestkit/blockforge/domain/consensus/utils/merkle"
	"github.com/regtestkit/blockforge/domain/consensus/utils/pow"
	"github.com/regtestkit/blockforge/domain/consensus/utils/witnesscommitment"
	"github.com/regtestkit/blockforge/domain/netparams"
	"github.com/regtestkit/blockforge/infrastructure/logger"
)

// DefaultMaxTimestampBumps is how many times a block's timestamp is moved
// one second forward when its nonce space is exhausted.
const DefaultMaxTimestampBumps = 8

// BlockBuilder assembles fully valid blocks from chain state and
// transactions. It holds no mutable state and is safe for concurrent use.
type BlockBuilder struct {
	params          *netparams.Params
	coinbaseManager model.CoinbaseManager

	timeSource        func() time.Time
	maxNonce          uint32
	maxTimestampBumps int
}

// Option configures a BlockBuilder.
type Option func(*BlockBuilder)

// WithTimeSource replaces the wall clock used for default timestamps.
func WithTimeSource(timeSource func() time.Time) Option {
	return func(bb *BlockBuilder) {
		bb.timeSource = timeSource
	}
}

// WithMaxNonce bounds the nonce search of every timestamp attempt.
func WithMaxNonce(maxNonce uint32) Option {
	return func(bb *BlockBuilder) {
		bb.maxNonce = maxNonce
	}
}

// WithMaxTimestampBumps sets how many times the timestamp may be moved
// forward after the nonce space is exhausted. Zero disables retrying.
func WithMaxTimestampBumps(maxTimestampBumps int) Option {
	return func(bb *BlockBuilder) {
		bb.maxTimestampBumps = maxTimestampBumps
	}
}

// New instantiates a new BlockBuilder for the network described by params
func New(params *netparams.Params, options ...Option) *BlockBuilder {
	bb := &BlockBuilder{
		params:            params,
		coinbaseManager:   coinbasemanager.New(params),
		timeSource:        time.Now,
		maxNonce:          pow.DefaultMaxNonce,
		maxTimestampBumps: DefaultMaxTimestampBumps,
	}
	for _, option := range options {
		option(bb)
	}
	if bb.maxTimestampBumps < 0 {
		bb.maxTimestampBumps = 0
	}
	return bb
}

// Params returns the network parameters blocks are built for.
func (bb *BlockBuilder) Params() *netparams.Params {
	return bb.params
}

// BuildBlock builds a valid block on top of chainState.
//
// Every header field and the height are resolved separately: an override
// wins over the matching template field, which wins over the default
// derived from chainState and the network parameters. A nil template is
// the same as an empty one. Non-empty extraTransactions replace the
// template's transactions.
//
// The returned block has the coinbase first, the subsidy for its height,
// the witness commitment of its transactions, the merkle root of its
// transactions and a header hash meeting its target. On error no block
// is returned.
func (bb *BlockBuilder) BuildBlock(template *model.BlockTemplate, chainState *model.ChainState,
	extraTransactions []*wire.MsgTx, overrides ...Override) (*wire.MsgBlock, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "BuildBlock")
	defer onEnd()

	resolved, err := bb.resolveTemplate(template, chainState, extraTransactions, overrides)
	if err != nil {
		return nil, err
	}
	return bb.buildBlock(resolved)
}

func (bb *BlockBuilder) buildBlock(resolved *resolvedTemplate) (*wire.MsgBlock, error) {
	coinbase, err := bb.coinbaseManager.ExpectedCoinbaseTransaction(resolved.height)
	if err != nil {
		return nil, err
	}
	transactions := make([]*wire.MsgTx, 0, len(resolved.transactions)+1)
	transactions = append(transactions, coinbase)
	transactions = append(transactions, resolved.transactions...)

	// The commitment changes the coinbase id, so it goes in before the
	// merkle root is calculated by SealBlock.
	err = witnesscommitment.Apply(transactions)
	if err != nil {
		return nil, err
	}

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:   resolved.version,
			PrevBlock: resolved.prevBlockHash,
			Timestamp: time.Unix(resolved.timestamp, 0),
			Bits:      resolved.bits,
		},
		Transactions: transactions,
	}
	err = bb.SealBlock(block)
	if err != nil {
		return nil, err
	}

	err = bb.checkBlock(block, resolved.height)
	if err != nil {
		return nil, err
	}

	log.Debugf("Built block %s at height %d with %d transactions",
		block.BlockHash(), resolved.height, len(block.Transactions))
	if log.Level() <= logger.LevelTrace {
		log.Tracef("Built block: %s", spew.Sdump(block))
	}
	return block, nil
}

// SealBlock sets the header merkle root to the merkle root of the block's
// transactions and mines the header starting from nonce 0. When a whole
// nonce range fails, the timestamp is moved one second forward and the
// search restarts, up to the builder's timestamp bump limit.
func (bb *BlockBuilder) SealBlock(block *wire.MsgBlock) error {
	block.Header.MerkleRoot = merkle.CalculateHashMerkleRoot(block.Transactions)
	return bb.MineBlock(block)
}

// MineBlock mines the header of block as is, with the same timestamp
// bumping policy as SealBlock.
func (bb *BlockBuilder) MineBlock(block *wire.MsgBlock) error {
	block.Header.Nonce = 0
	return bb.mineWithTimestampBumps(&block.Header)
}

// checkBlock makes sure a built block is valid before it's handed out, so
// that a bug in one of the steps is reported instead of producing a block
// the node rejects for an unrelated reason.
func (bb *BlockBuilder) checkBlock(block *wire.MsgBlock, height int64) error {
	if len(block.Transactions) == 0 || !blockchain.IsCoinBaseTx(block.Transactions[0]) {
		return errors.Errorf("built block %s doesn't start with a coinbase", block.BlockHash())
	}
	expectedSubsidy := coinbasemanager.CalcBlockSubsidy(height, bb.params)
	if expectedSubsidy > btcutil.MaxSatoshi || block.Transactions[0].TxOut[0].Value != int64(expectedSubsidy) {
		return errors.Errorf("built block %s pays %d instead of the %d subsidy",
			block.BlockHash(), block.Transactions[0].TxOut[0].Value, expectedSubsidy)
	}
	merkleRoot := merkle.CalculateHashMerkleRoot(block.Transactions)
	if block.Header.MerkleRoot != merkleRoot {
		return errors.Errorf("built block %s has merkle root %s instead of %s",
			block.BlockHash(), block.Header.MerkleRoot, merkleRoot)
	}
	err := witnesscommitment.Validate(block.Transactions)
	if err != nil {
		return err
	}
	if !pow.CheckProofOfWorkByBits(&block.Header) {
		return errors.Errorf("built block %s doesn't meet its target %08x", block.BlockHash(), block.Header.Bits)
	}
	return nil
}
