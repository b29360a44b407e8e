package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONB(t *testing.T) {
	t.Run("scan_string", func(t *testing.T) {
		var j JSONB
		require.NoError(t, j.Scan(`{"key": "value", "number": 42}`))
		assert.JSONEq(t, `{"key": "value", "number": 42}`, j.String())
	})

	t.Run("scan_bytes", func(t *testing.T) {
		var j JSONB
		require.NoError(t, j.Scan([]byte(`[1, 2, 3]`)))
		assert.JSONEq(t, `[1, 2, 3]`, string(j))
	})

	t.Run("scan_invalid_json", func(t *testing.T) {
		var j JSONB
		err := j.Scan(`{invalid json`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})

	t.Run("scan_nil", func(t *testing.T) {
		var j JSONB
		assert.NoError(t, j.Scan(nil))
		assert.Nil(t, []byte(j))
	})

	t.Run("scan_unsupported_type", func(t *testing.T) {
		var j JSONB
		err := j.Scan(123)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot scan")
	})

	t.Run("value", func(t *testing.T) {
		var empty JSONB
		val, err := empty.Value()
		assert.NoError(t, err)
		assert.Nil(t, val)

		val, err = JSONB(`{"a":1}`).Value()
		assert.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), val)
	})

	t.Run("marshal_embedded", func(t *testing.T) {
		data, err := json.Marshal(struct {
			Payload JSONB `json:"payload"`
			Missing JSONB `json:"missing"`
		}{Payload: JSONB(`{"10.0.0.1":[]}`)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"payload":{"10.0.0.1":[]},"missing":null}`, string(data))
	})
}

func TestScanResult_JSON(t *testing.T) {
	record := ScanResult{
		ID:          7,
		OwnerID:     3,
		IP:          "127.0.0.1",
		ScanPayload: JSONB(`{"127.0.0.1":[]}`),
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "id")
	assert.Contains(t, decoded, "ip")
	assert.Contains(t, decoded, "scan_payload")
	assert.Contains(t, decoded, "created_at")
	assert.NotContains(t, decoded, "owner_id")
}

func TestScanResult_HostResult(t *testing.T) {
	record := ScanResult{
		ScanPayload: JSONB(`{"10.0.0.5":[{"protocol":"tcp","port":22,"state":"open","service":"ssh","product":null,"version":null}]}`),
	}

	result, err := record.HostResult()
	require.NoError(t, err)
	require.Len(t, result["10.0.0.5"], 1)
	assert.Equal(t, 22, result["10.0.0.5"][0].Port)
	assert.Equal(t, "ssh", *result["10.0.0.5"][0].Service)
	assert.Nil(t, result["10.0.0.5"][0].Product)

	empty, err := (&ScanResult{}).HostResult()
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = (&ScanResult{ScanPayload: JSONB(`[1,2]`)}).HostResult()
	assert.Error(t, err)
}
