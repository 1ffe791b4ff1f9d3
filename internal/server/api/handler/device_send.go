package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
	apierror "github.com/openlabtools/hidlink/internal/server/api/error"
	"github.com/openlabtools/hidlink/registry"
	"github.com/openlabtools/hidlink/report"
	"github.com/openlabtools/hidlink/send"
)

// DeviceSend returns the handler for "device/{index}/send".
//
// The two failure channels of the send pipeline map onto the protocol as
// follows: preflight errors (bad report, unknown index) become ApiError
// responses, while transport failures are a successful API call whose
// SendResponse carries a nonzero code.
func DeviceSend(sender *send.Sender) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		idxStr, ok := req.Params["index"]
		if !ok {
			return apierror.ErrBadRequest("missing index parameter")
		}
		index, err := strconv.Atoi(idxStr)
		if err != nil {
			return apierror.ErrBadRequest(fmt.Sprintf("invalid device index: %v", err))
		}
		if req.Payload == "" {
			return apierror.ErrBadRequest("missing payload")
		}

		var sendReq apitypes.SendRequest
		if err := json.Unmarshal([]byte(req.Payload), &sendReq); err != nil {
			return apierror.ErrBadRequest(fmt.Sprintf("invalid JSON payload: %v", err))
		}
		if sendReq.ReportID < 0 || sendReq.ReportID > 255 {
			return apierror.ErrBadRequest("reportId must be in 0..255")
		}
		payload, err := sendReq.Payload()
		if err != nil {
			return apierror.ErrBadRequest(err.Error())
		}

		result, err := sender.Send(index, report.Type(sendReq.Type), sendReq.ReportID, payload)
		if err != nil {
			if errors.Is(err, registry.ErrNoDevice) {
				return apierror.ErrNotFound(err.Error())
			}
			// Preflight validation failures are the caller's fault.
			return apierror.ErrBadRequest(err.Error())
		}

		b, err := json.Marshal(apitypes.SendResponse{
			Code:        result.Code,
			Name:        result.Name,
			Description: result.Description,
		})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
