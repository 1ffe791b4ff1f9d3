// Package apiclient provides the Go client for the hidlink control API.
package apiclient

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/openlabtools/hidlink/apitypes"
)

// Client provides a high-level interface to the control API, handling
// request formatting, response parsing, and error mapping.
type Client struct{ transport *Transport }

// New constructs a client for the server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given
// password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// WithTransport constructs a Client using a custom Transport, mainly for
// tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the identity and version of the server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// DeviceList lists the devices registered on the server.
func (c *Client) DeviceList() (*apitypes.DeviceListResponse, error) {
	return c.DeviceListCtx(context.Background())
}

func (c *Client) DeviceListCtx(ctx context.Context) (*apitypes.DeviceListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "device/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceListResponse](raw)
}

// Rescan asks the server to re-enumerate native devices.
func (c *Client) Rescan() (*apitypes.RescanResponse, error) {
	return c.RescanCtx(context.Background())
}

func (c *Client) RescanCtx(ctx context.Context) (*apitypes.RescanResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "device/rescan", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.RescanResponse](raw)
}

// Send transmits one report through the device at the given index.
// reportType is 0 (echo), 2 (output) or 3 (feature); reportID must be in
// 0..255. The returned SendResponse carries the normalized transmission
// result; a nonzero Code means the device rejected or never received the
// report. Preflight failures surface as an error instead.
func (c *Client) Send(deviceIndex, reportType, reportID int, payload []byte) (*apitypes.SendResponse, error) {
	return c.SendCtx(context.Background(), deviceIndex, reportType, reportID, payload)
}

func (c *Client) SendCtx(ctx context.Context, deviceIndex, reportType, reportID int, payload []byte) (*apitypes.SendResponse, error) {
	req := apitypes.SendRequest{
		Type:     reportType,
		ReportID: reportID,
		Report:   hex.EncodeToString(payload),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal send request: %w", err)
	}
	pathParams := map[string]string{"index": fmt.Sprintf("%d", deviceIndex)}
	raw, err := c.transport.DoCtx(ctx, "device/{index}/send", string(body), pathParams)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.SendResponse](raw)
}

func parse[T any](raw string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("parse response %q: %w", raw, err)
	}
	return &v, nil
}
