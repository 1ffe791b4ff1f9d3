// Package cmd defines the hidlink command tree for kong.
package cmd

// LogFlags groups the logging options shared by every command.
type LogFlags struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"HIDLINK_LOG_LEVEL"`
	File  string `help:"Also write logs to this file" env:"HIDLINK_LOG_FILE"`
}

// CLI is the root command structure parsed by kong.
type CLI struct {
	Log    LogFlags `embed:"" prefix:"log."`
	Config string   `help:"Path to a config file (json, yaml or toml)" env:"HIDLINK_CONFIG"`

	Server    Server        `cmd:"" help:"Run the control API server exposing local HID devices"`
	Send      Send          `cmd:"" help:"Send an output or feature report to a device"`
	List      List          `cmd:"" help:"List HID devices"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
}
