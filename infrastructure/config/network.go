package config

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/ruleerrors"
	"github.com/regtestkit/blockforge/domain/netparams"
)

// NetworkFlags holds the subsidy schedule adjustments applied on top of the
// regtest network parameters.
type NetworkFlags struct {
	HalvingInterval    *uint64 `long:"halving-interval" description:"Number of blocks between subsidy halvings, 0 disables halving (default: 150)"`
	ProductionSchedule bool    `long:"production-halving" description:"Halve the subsidy every 210000 blocks like the production network"`
	BaseSubsidy        *uint64 `long:"base-subsidy" description:"Coinbase subsidy at height 0, in satoshi (default: 5000000000)"`

	ActiveNetParams *netparams.Params
}

// ResolveNetwork builds the network parameters from the regtest defaults
// and the flags. It returns an error if conflicting flags were passed.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	params := netparams.RegressionNetParams.Copy()

	if networkFlags.HalvingInterval != nil && networkFlags.ProductionSchedule {
		err := errors.New("--halving-interval and --production-halving cannot be used together. " +
			"Please choose only one subsidy schedule")
		fmt.Fprintln(os.Stderr, err)
		if parser != nil {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}
	if networkFlags.ProductionSchedule {
		params.SubsidyReductionInterval = netparams.MainnetSubsidyReductionInterval
	}
	if networkFlags.HalvingInterval != nil {
		params.SubsidyReductionInterval = *networkFlags.HalvingInterval
	}
	if networkFlags.BaseSubsidy != nil {
		if *networkFlags.BaseSubsidy > btcutil.MaxSatoshi {
			return ruleerrors.Errorf(ruleerrors.ErrInvalidTemplateField,
				"--base-subsidy %d is above the maximum of %d satoshi",
				*networkFlags.BaseSubsidy, int64(btcutil.MaxSatoshi))
		}
		params.BaseSubsidy = *networkFlags.BaseSubsidy
	}

	networkFlags.ActiveNetParams = params
	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *netparams.Params {
	return networkFlags.ActiveNetParams
}
