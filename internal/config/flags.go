package config

// Globals are the command line flags shared by every command
type Globals struct {
	Config    string `short:"c" type:"path" help:"Path to the YAML configuration file"`
	LogLevel  string `default:"info"    enum:"debug,info,warn,error" help:"Sets the minimum severity level for log messages"` // nolint:lll
	LogOutput string `default:"console" enum:"console,stdout,json"   help:"Specifies the format for log output"`
	LogFile   string `type:"path" help:"Also write logs to this file, rotated by size"`
}
