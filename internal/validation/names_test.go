package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		nodeID  string
		errMsg  string
		wantErr bool
	}{
		{name: "valid - simple", nodeID: "relay-1"},
		{name: "valid - uuid", nodeID: "8f14e45f-ceea-467f-a0e6-5f7d2a8b9c10"},
		{name: "valid - host:port", nodeID: "node.local:8080"},
		{name: "empty", nodeID: "", wantErr: true, errMsg: "cannot be empty"},
		{name: "too long", nodeID: strings.Repeat("a", 65), wantErr: true, errMsg: "must not exceed 64"},
		{name: "spaces", nodeID: "node 1", wantErr: true, errMsg: "can only contain"},
		{name: "slash", nodeID: "node/1", wantErr: true, errMsg: "can only contain"},
		{name: "cyrillic", nodeID: "узел", wantErr: true, errMsg: "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.nodeID)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	assert.NoError(t, ValidateToken("a-long-enough-token"))

	err := ValidateToken("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = ValidateToken("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 12")
}

func TestValidateSegments(t *testing.T) {
	assert.NoError(t, ValidateTableName("config"))
	assert.NoError(t, ValidateRecordID("dev._id.1"))
	assert.NoError(t, ValidateFieldName("topic"))

	tests := []struct {
		fn     func(string) error
		name   string
		input  string
		errMsg string
	}{
		{name: "empty table", fn: ValidateTableName, input: "", errMsg: "table name cannot be empty"},
		{name: "dotted table", fn: ValidateTableName, input: "a.b", errMsg: "cannot contain dots"},
		{name: "dotted field", fn: ValidateFieldName, input: "a.b", errMsg: "cannot contain dots"},
		{name: "empty record", fn: ValidateRecordID, input: "", errMsg: "record id cannot be empty"},
		{name: "spaces", fn: ValidateFieldName, input: " topic", errMsg: "spaces"},
		{name: "too long", fn: ValidateRecordID, input: strings.Repeat("x", 129), errMsg: "must not exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
