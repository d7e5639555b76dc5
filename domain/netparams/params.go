package netparams

import (
	"math/big"

	"github.com/btcsuite/btcutil"
)

// These variables are the proof-of-work limit parameters for each network.
var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network. It is the value 2^255 - 1.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

const (
	// RegressionPowLimitBits is the compact form of the minimum regtest
	// difficulty. Blocks built without explicit bits use it.
	RegressionPowLimitBits = 0x207fffff

	// BaseSubsidy is the starting subsidy amount for mined blocks, in
	// satoshi. This value is halved every SubsidyReductionInterval blocks.
	BaseSubsidy = 50 * btcutil.SatoshiPerBitcoin

	// RegressionSubsidyReductionInterval is the regtest halving interval.
	RegressionSubsidyReductionInterval = 150

	// MainnetSubsidyReductionInterval is the production halving interval,
	// kept for callers that want production-like subsidies on regtest.
	MainnetSubsidyReductionInterval = 210000

	// VersionBitsLastOldBlockVersion is the last block version before
	// version bits signalling. Nodes accept it without deployment
	// interpretation, which keeps built blocks free of signalling noise.
	VersionBitsLastOldBlockVersion = 4
)

// Params defines a network by the parameters the block forge needs.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// BaseSubsidy is the coinbase reward at height 0, in satoshi.
	BaseSubsidy uint64

	// SubsidyReductionInterval is the interval of blocks before the subsidy
	// is reduced. Zero disables halving.
	SubsidyReductionInterval uint64

	// BlockVersion is the header version used when the caller doesn't
	// override it.
	BlockVersion int32
}

// RegressionNetParams defines the network parameters for the regression test
// network.
var RegressionNetParams = Params{
	Name:                     "regtest",
	PowLimit:                 regressionPowLimit,
	PowLimitBits:             RegressionPowLimitBits,
	BaseSubsidy:              BaseSubsidy,
	SubsidyReductionInterval: RegressionSubsidyReductionInterval,
	BlockVersion:             VersionBitsLastOldBlockVersion,
}

// Copy returns a copy of p that can be modified without affecting p.
func (p *Params) Copy() *Params {
	clone := *p
	clone.PowLimit = new(big.Int).Set(p.PowLimit)
	return &clone
}
