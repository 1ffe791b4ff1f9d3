package api

import "time"

// ServerConfig holds the control API server settings.
type ServerConfig struct {
	Addr              string        `help:"Control API listen address" default:"127.0.0.1:3260" env:"HIDLINK_API_ADDR"`
	ConnectionTimeout time.Duration `help:"Per-connection read/write timeout" default:"30s" env:"HIDLINK_API_CONNECTION_TIMEOUT"`
	// Password protects the API with the PSK handshake. Empty disables
	// authentication; the server command fills it from the key file.
	Password string `kong:"-"`
}
