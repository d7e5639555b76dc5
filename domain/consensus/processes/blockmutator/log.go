package blockmutator

import (
	"github.com/regtestkit/blockforge/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.MUTN)
