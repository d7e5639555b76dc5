package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockbuilder"
	"github.com/regtestkit/blockforge/domain/consensus/processes/blockmutator"
	"github.com/regtestkit/blockforge/infrastructure/config"
	"github.com/regtestkit/blockforge/infrastructure/logger"
	"github.com/regtestkit/blockforge/version"
)

const (
	defaultLogFilename    = "blockforge.log"
	defaultErrLogFilename = "blockforge_err.log"
	defaultDebugLevel     = "info"
)

var (
	// Default configuration options
	defaultHomeDir = btcutil.AppDataDir("blockforge", false)
	defaultLogDir  = filepath.Join(defaultHomeDir, "logs")
)

type configFlags struct {
	ShowVersion    bool         `short:"V" long:"version" description:"Display version information and exit"`
	LogDir         string       `long:"logdir" description:"Directory to log output"`
	NoLogFiles     bool         `long:"nologfiles" description:"Log to stderr only"`
	DebugLevel     string       `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	StderrLevel    logger.Level `long:"stderr-level" description:"Lowest level printed to stderr" default:"wrn"`
	Mutation       string       `short:"m" long:"mutation" description:"Break the consensus rule with this reject reason instead of building a valid block"`
	ListMutations  bool         `long:"list-mutations" description:"List the supported mutations and exit"`
	Transactions   []string     `long:"tx" description:"Hex of a transaction to include after the coinbase. May be repeated"`
	Timestamp      *int64       `long:"timestamp" description:"Header timestamp in Unix seconds (default: max(median time + 1, now))"`
	BlockVersion   *int32       `long:"block-version" description:"Header version (default: 4)"`
	CoinbaseHeight *int64       `long:"coinbase-height" description:"Height encoded in the coinbase (default: --height + 1)"`
	MaxNonce       uint32       `long:"max-nonce" description:"Highest nonce tried before the timestamp is bumped (default: 4294967295)"`
	config.NetworkFlags
	config.ChainStateFlags
}

func parseConfig(args []string) (*configFlags, error) {
	cfg := &configFlags{
		LogDir:     defaultLogDir,
		DebugLevel: defaultDebugLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}
	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	if cfg.Mutation != "" {
		if _, ok := blockmutator.RuleByTag(cfg.Mutation); !ok {
			return nil, errors.Errorf("unknown --mutation %s. Use --list-mutations to see the supported ones",
				cfg.Mutation)
		}
	}

	return cfg, nil
}

// overrides converts the header flags into builder overrides.
func (cfg *configFlags) overrides() []blockbuilder.Override {
	var overrides []blockbuilder.Override
	if cfg.Timestamp != nil {
		overrides = append(overrides, blockbuilder.WithTimestamp(*cfg.Timestamp))
	}
	if cfg.BlockVersion != nil {
		overrides = append(overrides, blockbuilder.WithVersion(*cfg.BlockVersion))
	}
	if cfg.CoinbaseHeight != nil {
		overrides = append(overrides, blockbuilder.WithHeight(*cfg.CoinbaseHeight))
	}
	return overrides
}

func (cfg *configFlags) builderOptions() []blockbuilder.Option {
	var options []blockbuilder.Option
	if cfg.MaxNonce != 0 {
		options = append(options, blockbuilder.WithMaxNonce(cfg.MaxNonce))
	}
	return options
}

func (cfg *configFlags) logFiles() (logFile, errLogFile string) {
	if cfg.NoLogFiles {
		return "", ""
	}
	return filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename)
}
