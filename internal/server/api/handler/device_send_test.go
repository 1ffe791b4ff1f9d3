package handler_test

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/internal/server/api"
	"github.com/openlabtools/hidlink/internal/server/api/handler"
	th "github.com/openlabtools/hidlink/internal/testing"
	"github.com/openlabtools/hidlink/send"
	"github.com/openlabtools/hidlink/transport"
)

func callSend(t *testing.T, mock *th.MockTransport, index, payload string) (*apitypes.SendResponse, error) {
	t.Helper()
	reg := th.NewRegistryWithMock(t, mock)
	sender := send.New(reg, nil, io.Discard, th.DiscardLogger())
	h := handler.DeviceSend(sender)

	req := &api.Request{Params: map[string]string{"index": index}, Payload: payload}
	res := &api.Response{}
	if err := h(req, res, th.DiscardLogger()); err != nil {
		return nil, err
	}
	var out apitypes.SendResponse
	require.NoError(t, json.Unmarshal([]byte(res.JSON), &out))
	return &out, nil
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.Status)
}

func TestDeviceSendOutput(t *testing.T) {
	mock := &th.MockTransport{}
	out, err := callSend(t, mock, "0", `{"type":2,"reportId":5,"report":"aabbcc"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Code)
	assert.Empty(t, out.Name)
	assert.Empty(t, out.Description)

	sent := mock.Reports()
	require.Len(t, sent, 1)
	assert.False(t, sent[0].Feature)
	assert.Equal(t, byte(5), sent[0].ID)
	assert.Equal(t, []byte{0x05, 0xbb, 0xcc}, sent[0].Data)
}

func TestDeviceSendFeatureSymbolicType(t *testing.T) {
	mock := &th.MockTransport{}
	out, err := callSend(t, mock, "0", `{"type":"feature","reportId":9,"report":"01 02 03"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Code)

	sent := mock.Reports()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].Feature)
	assert.Equal(t, []byte{0x09, 0x02, 0x03}, sent[0].Data)
}

func TestDeviceSendEcho(t *testing.T) {
	mock := &th.MockTransport{}
	out, err := callSend(t, mock, "0", `{"type":0,"reportId":1,"report":"ff"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Code)
	assert.Empty(t, mock.Reports(), "echo mode must not touch the device")
}

func TestDeviceSendTransportFailure(t *testing.T) {
	mock := &th.MockTransport{Err: &transport.NativeError{Code: 32, Msg: "broken pipe"}}
	out, err := callSend(t, mock, "0", `{"type":2,"reportId":1,"report":"aa"}`)
	require.NoError(t, err, "transport failures are reported in-band, not as API errors")
	assert.Equal(t, int64(32), out.Code)
	assert.Equal(t, "EPIPE", out.Name)
}

func TestDeviceSendBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		index   string
		payload string
		status  int
	}{
		{"input type rejected", "0", `{"type":1,"reportId":1,"report":"aa"}`, 400},
		{"empty report", "0", `{"type":2,"reportId":1,"report":""}`, 400},
		{"bad hex", "0", `{"type":2,"reportId":1,"report":"zz"}`, 400},
		{"report id too large", "0", `{"type":2,"reportId":300,"report":"aa"}`, 400},
		{"negative report id", "0", `{"type":2,"reportId":-1,"report":"aa"}`, 400},
		{"not json", "0", `garbage`, 400},
		{"missing payload", "0", ``, 400},
		{"non-numeric index", "x", `{"type":2,"reportId":1,"report":"aa"}`, 400},
		{"unknown device", "42", `{"type":2,"reportId":1,"report":"aa"}`, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &th.MockTransport{}
			_, err := callSend(t, mock, tt.index, tt.payload)
			requireStatus(t, err, tt.status)
			assert.Empty(t, mock.Reports())
		})
	}
}
