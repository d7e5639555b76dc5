package main

import (
	"github.com/regtestkit/blockforge/infrastructure/logger"
	"github.com/regtestkit/blockforge/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.BFRG)

func initLog(cfg *configFlags) {
	logFile, errLogFile := cfg.logFiles()
	err := logger.InitLog(logFile, errLogFile, cfg.StderrLevel)
	if err != nil {
		panics.Exit(log, err.Error())
	}
}
