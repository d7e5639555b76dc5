package config

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jessevdk/go-flags"
	"github.com/regtestkit/blockforge/domain/netparams"
)

type testConfig struct {
	NetworkFlags
	ChainStateFlags
}

func parseTestArgs(t *testing.T, args ...string) (*testConfig, *flags.Parser) {
	cfg := &testConfig{}
	parser := flags.NewParser(cfg, flags.None)
	_, err := parser.ParseArgs(args)
	if err != nil {
		t.Fatalf("ParseArgs(%v): %s", args, err)
	}
	return cfg, parser
}

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		args                     []string
		expectedInterval         uint64
		expectedBaseSubsidy      uint64
		expectedResolutionFailed bool
	}{
		{args: nil, expectedInterval: 150, expectedBaseSubsidy: 5_000_000_000},
		{args: []string{"--production-halving"}, expectedInterval: 210_000, expectedBaseSubsidy: 5_000_000_000},
		{args: []string{"--halving-interval=0"}, expectedInterval: 0, expectedBaseSubsidy: 5_000_000_000},
		{args: []string{"--base-subsidy=1000"}, expectedInterval: 150, expectedBaseSubsidy: 1000},
		{args: []string{"--base-subsidy=2100000000000000"}, expectedInterval: 150, expectedBaseSubsidy: 2_100_000_000_000_000},
		{args: []string{"--halving-interval=10", "--production-halving"}, expectedResolutionFailed: true},
		{args: []string{"--base-subsidy=2100000000000001"}, expectedResolutionFailed: true},
		{args: []string{"--base-subsidy=18446744073709551615"}, expectedResolutionFailed: true},
	}

	for _, test := range tests {
		cfg, parser := parseTestArgs(t, test.args...)
		err := cfg.ResolveNetwork(parser)
		if test.expectedResolutionFailed {
			if err == nil {
				t.Errorf("TestResolveNetwork: %v: expected an error", test.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("TestResolveNetwork: %v: unexpected error: %+v", test.args, err)
			continue
		}
		params := cfg.NetParams()
		if params.SubsidyReductionInterval != test.expectedInterval {
			t.Errorf("TestResolveNetwork: %v: expected interval %d, got %d",
				test.args, test.expectedInterval, params.SubsidyReductionInterval)
		}
		if params.BaseSubsidy != test.expectedBaseSubsidy {
			t.Errorf("TestResolveNetwork: %v: expected base subsidy %d, got %d",
				test.args, test.expectedBaseSubsidy, params.BaseSubsidy)
		}
	}

	if netparams.RegressionNetParams.SubsidyReductionInterval != netparams.RegressionSubsidyReductionInterval {
		t.Fatalf("TestResolveNetwork: the global regtest params were modified")
	}
}

func TestChainState(t *testing.T) {
	bestBlockHash := chainhash.DoubleHashH([]byte("tip"))
	cfg, _ := parseTestArgs(t, "--height=150", "--best-block-hash="+bestBlockHash.String(),
		"--median-time=1700000000", "--bits=0x207ffff0")

	chainState, err := cfg.ChainState()
	if err != nil {
		t.Fatalf("ChainState: %+v", err)
	}
	if chainState.Height != 150 || chainState.MedianTime != 1_700_000_000 {
		t.Errorf("TestChainState: unexpected height %d or median time %d", chainState.Height, chainState.MedianTime)
	}
	if chainState.BestBlockHash != bestBlockHash {
		t.Errorf("TestChainState: expected best block hash %s, got %s", bestBlockHash, chainState.BestBlockHash)
	}
	if chainState.Bits != 0x207ffff0 {
		t.Errorf("TestChainState: expected bits 207ffff0, got %08x", chainState.Bits)
	}
}

func TestChainStateErrors(t *testing.T) {
	tests := [][]string{
		{"--height=-1"},
		{"--best-block-hash=xyz"},
		{"--bits=nothex"},
		{"--bits=1ffffffff"},
	}
	for _, args := range tests {
		cfg, _ := parseTestArgs(t, args...)
		if _, err := cfg.ChainState(); err == nil {
			t.Errorf("TestChainStateErrors: %v: expected an error", args)
		}
	}
}
