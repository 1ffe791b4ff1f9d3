package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
	"github.com/openlabtools/hidlink/registry"
)

// DeviceList returns a handler that lists the registered devices.
func DeviceList(reg *registry.Registry) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		devices := []apitypes.Device{}
		for _, d := range reg.List() {
			devices = append(devices, apitypes.Device{
				Index:     d.Index,
				Path:      d.Info.Path,
				Vid:       fmt.Sprintf("0x%04x", d.Info.VendorID),
				Pid:       fmt.Sprintf("0x%04x", d.Info.ProductID),
				Name:      d.Info.Name,
				Transport: d.Transport.Kind(),
			})
		}
		b, err := json.Marshal(apitypes.DeviceListResponse{Devices: devices})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
