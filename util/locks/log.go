package locks

import (
	"github.com/novacore/novad/logger"
	"github.com/novacore/novad/util/panics"
)

var log = logger.Logger(logger.TagScript)

// Spawn launches f as a goroutine guarded against panics, logging any
// recovered panic through the script-verification subsystem logger
// instead of crashing the worker pool outright.
var Spawn = panics.GoroutineWrapperFunc(log)
