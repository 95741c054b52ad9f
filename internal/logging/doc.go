// Package logging builds the zap loggers used by the command line tools.
//
// Console output is meant for people reading a terminal and only shows
// warnings unless verbose; JSON output is meant for log collectors.
package logging
