package coinbasemanager

import (
	"github.com/regtestkit/blockforge/domain/netparams"
)

// CalcBlockSubsidy returns the subsidy amount a block at the provided height
// should have, in satoshi. This is mainly used for determining how much the
// coinbase for newly generated blocks awards.
//
// The subsidy is halved every SubsidyReductionInterval blocks.
// Mathematically this is: BaseSubsidy / 2^(height/SubsidyReductionInterval)
//
// After 64 halvings the shift clears every bit and the subsidy stays zero.
func CalcBlockSubsidy(height int64, params *netparams.Params) uint64 {
	if params.SubsidyReductionInterval == 0 {
		return params.BaseSubsidy
	}

	// Equivalent to: BaseSubsidy / 2^(height/SubsidyReductionInterval)
	return params.BaseSubsidy >> (uint64(height) / params.SubsidyReductionInterval)
}
