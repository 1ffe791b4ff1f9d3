// Package handler contains the control API command handlers.
package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
)

// Version is the reported server version, overridden at link time for
// releases.
var Version = "dev"

// Ping returns a handler answering with the server identity and version.
func Ping() api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		b, err := json.Marshal(apitypes.PingResponse{Server: "hidlink", Version: Version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
