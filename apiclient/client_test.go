package apiclient_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabtools/hidlink/apiclient"
	"github.com/openlabtools/hidlink/apitypes"
)

func mockClient(t *testing.T, responder func(path string, payload any, pathParams map[string]string) (string, error)) *apiclient.Client {
	t.Helper()
	return apiclient.WithTransport(apiclient.NewMockTransport(responder))
}

func TestClientPing(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		assert.Equal(t, "ping", path)
		assert.Nil(t, payload)
		return `{"server":"hidlink","version":"1.2.3"}`, nil
	})

	resp, err := c.Ping()
	require.NoError(t, err)
	assert.Equal(t, "hidlink", resp.Server)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestClientDeviceList(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		assert.Equal(t, "device/list", path)
		return `{"devices":[{"index":0,"path":"/dev/hidraw0","vid":"0x1209","pid":"0x0001","name":"pad","transport":"hidraw"}]}`, nil
	})

	resp, err := c.DeviceList()
	require.NoError(t, err)
	require.Len(t, resp.Devices, 1)
	assert.Equal(t, "/dev/hidraw0", resp.Devices[0].Path)
	assert.Equal(t, "hidraw", resp.Devices[0].Transport)
}

func TestClientRescan(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		assert.Equal(t, "device/rescan", path)
		return `{"added":2}`, nil
	})

	resp, err := c.Rescan()
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Added)
}

func TestClientSend(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		assert.Equal(t, "device/{index}/send", path)
		assert.Equal(t, map[string]string{"index": "3"}, pathParams)

		var req apitypes.SendRequest
		require.NoError(t, json.Unmarshal([]byte(payload.(string)), &req))
		assert.Equal(t, 2, req.Type)
		assert.Equal(t, 17, req.ReportID)
		assert.Equal(t, "11aabb", req.Report)

		return `{"code":0,"name":"","description":""}`, nil
	})

	resp, err := c.Send(3, 2, 17, []byte{0x11, 0xaa, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Code)
	assert.Empty(t, resp.Name)
}

func TestClientSendTransportFailureInBand(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		return `{"code":32,"name":"EPIPE","description":"broken pipe"}`, nil
	})

	resp, err := c.Send(0, 3, 1, []byte{0x01})
	require.NoError(t, err, "device-level failures come back in the response body")
	assert.Equal(t, int64(32), resp.Code)
	assert.Equal(t, "EPIPE", resp.Name)
}

func TestClientPropagatesApiError(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		return "", apitypes.ApiError{Status: 404, Title: "Not Found", Detail: "no device at index 9"}
	})

	_, err := c.Send(9, 2, 1, []byte{0x01})
	var apiErr apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestClientBadResponseBody(t *testing.T) {
	c := mockClient(t, func(path string, payload any, pathParams map[string]string) (string, error) {
		return "not json", nil
	})

	_, err := c.Ping()
	assert.Error(t, err)
}
