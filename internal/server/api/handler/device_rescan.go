package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
	apierror "github.com/openlabtools/hidlink/internal/server/api/error"
	"github.com/openlabtools/hidlink/registry"
)

// DeviceRescan returns a handler that re-enumerates native devices and
// registers newcomers.
func DeviceRescan(reg *registry.Registry) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		added, err := reg.Rescan()
		if err != nil {
			return apierror.ErrInternal(fmt.Sprintf("rescan failed: %v", err))
		}
		if added > 0 {
			logger.Info("registered new devices", "added", added)
		}
		b, err := json.Marshal(apitypes.RescanResponse{Added: added})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
