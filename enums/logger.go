package enums

const (
	LogLevelDebug  = "debug"
	LogLevelInfo   = "info"
	LogLevelWarn   = "warn"
	LogLevelError  = "error"
	LogLevelFatal  = "fatal"
	LogLevelPanic  = "panic"
	LogLevelDPanic = "dpanic"

	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
)
