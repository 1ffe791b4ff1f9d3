package apitypes_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabtools/hidlink/apitypes"
)

func TestSendRequestUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantType int
		wantErr  bool
	}{
		{"numeric type", `{"type":2,"reportId":5,"report":"aabb"}`, 2, false},
		{"symbolic output", `{"type":"output","reportId":5,"report":"aabb"}`, 2, false},
		{"symbolic feature", `{"type":"feature","reportId":0,"report":"00"}`, 3, false},
		{"symbolic echo", `{"type":"echo","reportId":0,"report":"01"}`, 0, false},
		{"missing type", `{"reportId":5,"report":"aabb"}`, 0, true},
		{"unknown name", `{"type":"interrupt","reportId":0,"report":"00"}`, 0, true},
		{"bool type", `{"type":true,"reportId":0,"report":"00"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req apitypes.SendRequest
			err := json.Unmarshal([]byte(tt.json), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, req.Type)
		})
	}
}

func TestSendRequestPayload(t *testing.T) {
	req := apitypes.SendRequest{Report: "0xAA bb 01"}
	b, err := req.Payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0x01}, b)

	req.Report = "zz"
	_, err = req.Payload()
	assert.Error(t, err)
}

func TestSendRequestRoundTrip(t *testing.T) {
	in := apitypes.SendRequest{Type: 3, ReportID: 0x11, Report: "0010"}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out apitypes.SendRequest
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestApiErrorError(t *testing.T) {
	e := apitypes.ApiError{Status: 404, Title: "Not Found", Detail: "no device"}
	assert.Equal(t, "404 Not Found: no device", e.Error())
	assert.Equal(t, "unknown error", apitypes.ApiError{}.Error())
}
