package main

import (
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/wire"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockbuilder"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockmutator"
	"github.com/regtestkit/blockforge/infrastructure/logger"
	"github.com/regtestkit/blockforge/util"
	"github.com/regtestkit/blockforge/util/panics"
	"github.com/regtestkit/blockforge/version"
	"golang.org/x/term"
)

const validBlockLabel = "valid"

func main() {
	// Deferred first so it runs after HandlePanic has logged.
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, nil)

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	initLog(cfg)

	log.Infof("Version %s", version.Version())
	log.Debugf("Log levels: %s", logger.LevelsString())

	err = run(cfg, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		log.Errorf("%+v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		logger.BackendLog.Close()
		os.Exit(1)
	}
}

// run prints the requested block to out. The submission hint is printed
// only when interactive is set, so the output can be piped as is.
func run(cfg *configFlags, out io.Writer, interactive bool) error {
	if cfg.ListMutations {
		for _, rule := range blockmutator.Rules() {
			fmt.Fprintf(out, "%-26s %s\n", rule.Tag, rule.Description)
		}
		return nil
	}

	chainState, err := cfg.ChainState()
	if err != nil {
		return err
	}
	transactions, err := util.TransactionsFromHex(cfg.Transactions)
	if err != nil {
		return err
	}

	builder := blockbuilder.New(cfg.NetParams(), cfg.builderOptions()...)
	params := builder.Params()
	log.Infof("Building on %s: base subsidy %s, halving interval %d",
		params.Name, util.FormatAmount(int64(params.BaseSubsidy)), params.SubsidyReductionInterval)

	var block *wire.MsgBlock
	label := validBlockLabel
	rejectReason := ""
	if cfg.Mutation == "" {
		block, err = builder.BuildBlock(nil, chainState, transactions, cfg.overrides()...)
		if err != nil {
			return err
		}
	} else {
		mutated, err := blockmutator.New(builder).Mutate(cfg.Mutation, chainState, transactions, cfg.overrides()...)
		if err != nil {
			return err
		}
		block = mutated.Block
		label = mutated.Rule.Tag
		rejectReason = mutated.RejectReason
	}

	blockHex, err := util.BlockToHex(block)
	if err != nil {
		return err
	}
	coinbase := block.Transactions[util.CoinbaseTransactionIndex]

	fmt.Fprintf(out, "Block raw hex (%s): %s\n", label, blockHex)
	fmt.Fprintf(out, "Block hash: %s\n", block.BlockHash())
	fmt.Fprintf(out, "Coinbase value: %s\n", util.FormatAmount(coinbase.TxOut[0].Value))
	if rejectReason != "" {
		fmt.Fprintf(out, "Expected reject reason: %s\n", rejectReason)
	}
	if interactive {
		fmt.Fprintln(out, "You can use 'bitcoin-cli -regtest submitblock <hex>' to submit it.")
	}
	return nil
}
