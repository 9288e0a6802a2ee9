//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package decisionlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *Record {
	return &Record{
		ID:             "rec-1",
		Timestamp:      time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		UserID:         "u1",
		OrganizationID: "org-1",
		Role:           types.RoleMember,
		Permission:     types.PermissionEquipmentEdit,
		Entity:         &types.EntityContext{TeamID: "maintenance"},
		Decision:       DecisionGrant,
		Band:           "team-manager",
	}
}

func TestIoWriterStreamSend(t *testing.T) {
	var buf bytes.Buffer
	stream, err := NewIoWriterFactory(&buf).NewStream()
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Send(sampleRecord()))

	// compact single-line JSON terminated by a newline
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasSuffix(out, "\n"))

	var decoded Record
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "u1", decoded.UserID)
	assert.Equal(t, types.PermissionEquipmentEdit, decoded.Permission)
	assert.Equal(t, DecisionGrant, decoded.Decision)
	require.NotNil(t, decoded.Entity)
	assert.Equal(t, "maintenance", decoded.Entity.TeamID)
}

func TestIoWriterStreamPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	stream, err := NewIoWriterFactoryWithOptions(&buf, Options{PrettyPrint: true}).NewStream()
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Send(sampleRecord()))

	assert.Greater(t, strings.Count(buf.String(), "\n"), 1)
	assert.Contains(t, buf.String(), `  "decision": "GRANT"`)
}

func TestIoWriterStreamOmitsNilEntity(t *testing.T) {
	var buf bytes.Buffer
	stream, err := NewIoWriterFactory(&buf).NewStream()
	require.NoError(t, err)

	r := sampleRecord()
	r.Entity = nil
	require.NoError(t, stream.Send(r))

	assert.NotContains(t, buf.String(), `"entity"`)
}

func TestNullStreamDiscards(t *testing.T) {
	stream, err := NewNullFactory().NewStream()
	require.NoError(t, err)
	defer stream.Close()

	assert.NoError(t, stream.Send(sampleRecord()))
}
