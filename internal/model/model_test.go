// File: internal/model/model_test.go
package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

func writeModelFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid model", func(t *testing.T) {
		path := writeModelFile(t, `{
			"system_name": "Test VPP",
			"location": "Adelaide",
			"components": [
				{"id": "inv_1", "type": "solar_inverter", "capacity_kw": 5, "protocols": ["modbus"]},
				{"id": "api_1", "type": "api", "api_endpoints": ["/vpp/control"]}
			]
		}`)

		sys, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Test VPP", sys.Name)
		require.Len(t, sys.Components, 2)

		// Names default to ids, boundaries are derived.
		assert.Equal(t, "inv_1", sys.Components[0].Name)
		assert.Equal(t, schemas.BoundaryDevice, sys.Components[0].TrustBoundary)
		assert.Equal(t, schemas.BoundaryDMZ, sys.Components[1].TrustBoundary)

		// One modbus telemetry flow, one API flow.
		require.Len(t, sys.DataFlows, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeModelFile(t, `{"system_name": `)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing system model")
	})

	t.Run("duplicate component id", func(t *testing.T) {
		path := writeModelFile(t, `{
			"system_name": "Dup",
			"components": [
				{"id": "inv_1", "type": "solar_inverter"},
				{"id": "inv_1", "type": "gateway"}
			]
		}`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate component id")
	})

	t.Run("negative capacity", func(t *testing.T) {
		path := writeModelFile(t, `{
			"system_name": "Neg",
			"components": [{"id": "inv_1", "type": "solar_inverter", "capacity_kw": -1}]
		}`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative capacity")
	})

	t.Run("unresolved flow endpoint", func(t *testing.T) {
		path := writeModelFile(t, `{
			"system_name": "Bad Flow",
			"components": [{"id": "inv_1", "type": "solar_inverter"}],
			"data_flows": [
				{"id": "f1", "source_component": "inv_1", "destination_component": "ghost", "protocol": "MQTT"}
			]
		}`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown destination")
	})
}

func TestDeriveTrustBoundary(t *testing.T) {
	tests := []struct {
		name      string
		component schemas.Component
		want      schemas.TrustBoundary
	}{
		{"internet facing wins", schemas.Component{Type: schemas.ComponentInverter, InternetFacing: true}, schemas.BoundaryInternet},
		{"api lands in dmz", schemas.Component{Type: schemas.ComponentAPI}, schemas.BoundaryDMZ},
		{"inverter on device network", schemas.Component{Type: schemas.ComponentInverter}, schemas.BoundaryDevice},
		{"gateway on device network", schemas.Component{Type: schemas.ComponentGateway}, schemas.BoundaryDevice},
		{"monitoring on management network", schemas.Component{Type: schemas.ComponentMonitoring}, schemas.BoundaryManagement},
		{"database internal", schemas.Component{Type: schemas.ComponentDatabase}, schemas.BoundaryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTrustBoundary(tt.component))
		})
	}
}

func TestDerivedFlows(t *testing.T) {
	sys := &schemas.System{
		Name: "Flows",
		Components: []schemas.Component{
			{ID: "inv_1", Type: schemas.ComponentInverter, Protocols: []string{"modbus", "sunspec"}},
			{ID: "gw_1", Type: schemas.ComponentGateway, Protocols: []string{"MQTT"}},
			{ID: "api_1", Type: schemas.ComponentAPI, APIEndpoints: []string{"/vpp/control"}},
		},
	}
	Normalize(sys)

	require.Len(t, sys.DataFlows, 3, "sunspec is not a recognized telemetry protocol")

	byID := map[string]schemas.DataFlow{}
	for _, f := range sys.DataFlows {
		byID[f.ID] = f
	}

	modbus := byID["flow_inv_1_modbus_0"]
	assert.Equal(t, MonitoringSystem, modbus.Destination)
	assert.False(t, modbus.Encrypted, "modbus has no transport encryption")
	assert.False(t, modbus.Authenticated)

	mqtt := byID["flow_gw_1_mqtt_1"]
	assert.True(t, mqtt.Encrypted, "mqtt is assumed to run over TLS")

	api := byID["flow_api_1_api_2"]
	assert.Equal(t, ExternalClient, api.Source)
	assert.True(t, api.CrossesTrustBoundary)
	assert.Equal(t, schemas.BoundaryInternet, api.BoundaryCrossed)
}

func TestDefault(t *testing.T) {
	sys := Default()
	require.NoError(t, Validate(sys))

	require.Len(t, sys.Components, 3)
	assert.Equal(t, 5.0, sys.TotalCapacityKW())

	inv := sys.ComponentByID("inverter_001")
	require.NotNil(t, inv)
	assert.Equal(t, schemas.BoundaryDevice, inv.TrustBoundary)

	api := sys.ComponentByID("api_001")
	require.NotNil(t, api)
	assert.Equal(t, schemas.BoundaryDMZ, api.TrustBoundary)

	assert.NotEmpty(t, sys.DataFlows)
	assert.Nil(t, sys.ComponentByID("ghost"))
}
