package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
	"github.com/openlabtools/hidlink/internal/server/api/handler"
	th "github.com/openlabtools/hidlink/internal/testing"
	"github.com/openlabtools/hidlink/registry"
)

func TestPing(t *testing.T) {
	res := &api.Response{}
	require.NoError(t, handler.Ping()(&api.Request{}, res, th.DiscardLogger()))

	var out apitypes.PingResponse
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &out))
	assert.Equal(t, "hidlink", out.Server)
	assert.Equal(t, handler.Version, out.Version)
}

func TestDeviceList(t *testing.T) {
	mock := &th.MockTransport{}
	reg := th.NewRegistryWithMock(t, mock)

	res := &api.Response{}
	require.NoError(t, handler.DeviceList(reg)(&api.Request{}, res, th.DiscardLogger()))

	var out apitypes.DeviceListResponse
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &out))
	require.Len(t, out.Devices, 1)
	assert.Equal(t, 0, out.Devices[0].Index)
	assert.Equal(t, "mock", out.Devices[0].Path)
	assert.Equal(t, "mock", out.Devices[0].Transport)
	assert.Equal(t, "0x0000", out.Devices[0].Vid)
}

func TestDeviceListEmpty(t *testing.T) {
	res := &api.Response{}
	require.NoError(t, handler.DeviceList(registry.New())(&api.Request{}, res, th.DiscardLogger()))
	assert.JSONEq(t, `{"devices":[]}`, res.JSON)
}

func TestDeviceRescan(t *testing.T) {
	res := &api.Response{}
	err := handler.DeviceRescan(registry.New())(&api.Request{}, res, th.DiscardLogger())
	require.NoError(t, err)

	var out apitypes.RescanResponse
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &out))
	assert.GreaterOrEqual(t, out.Added, 0)
}
