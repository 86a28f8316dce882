package config

import "github.com/brettbedarf/memfs/internal/util"

// CLI verbosity levels accepted by ConfigOverride.LogLvl
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// verboseLevels maps verbosity 1..5 onto util log levels
var verboseLevels = [...]util.LogLevel{
	util.ErrorLevel,
	util.WarnLevel,
	util.InfoLevel,
	util.DebugLevel,
	util.TraceLevel,
}

// VerboseToLogLevel clamps v to [ErrorVerbose, TraceVerbose] and returns the
// matching log level
func VerboseToLogLevel(v int) util.LogLevel {
	v = util.Clamp(v, ErrorVerbose, TraceVerbose)
	return verboseLevels[v-1]
}
