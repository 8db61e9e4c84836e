// File: internal/model/model.go

// Package model loads and validates the static JSON description of the
// assessed solar deployment. The loader fills in everything the file format
// leaves implicit: trust boundaries are derived from component type and
// internet exposure, and data flows are synthesized from declared API
// endpoints and field protocols when the file does not list them explicitly.
package model

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pseudo-components used as flow endpoints that are not part of the model.
const (
	ExternalClient   = "external_client"
	MonitoringSystem = "monitoring_system"
)

// Load reads a system model from a JSON file, normalizes it and validates it.
func Load(path string) (*schemas.System, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system model: %w", err)
	}

	var sys schemas.System
	if err := json.Unmarshal(raw, &sys); err != nil {
		return nil, fmt.Errorf("parsing system model %s: %w", path, err)
	}

	Normalize(&sys)
	if err := Validate(&sys); err != nil {
		return nil, fmt.Errorf("invalid system model %s: %w", path, err)
	}
	return &sys, nil
}

// Normalize derives trust boundaries for every component and, when the model
// file declares no data flows of its own, synthesizes them from component
// API endpoints and field protocols.
func Normalize(sys *schemas.System) {
	for i := range sys.Components {
		c := &sys.Components[i]
		if c.Name == "" {
			c.Name = c.ID
		}
		if c.TrustBoundary == "" {
			c.TrustBoundary = DeriveTrustBoundary(*c)
		}
	}
	if len(sys.DataFlows) == 0 {
		sys.DataFlows = deriveDataFlows(sys)
	}
}

// DeriveTrustBoundary places a component in a network zone. Internet-facing
// components always land in INTERNET regardless of type.
func DeriveTrustBoundary(c schemas.Component) schemas.TrustBoundary {
	switch {
	case c.InternetFacing:
		return schemas.BoundaryInternet
	case c.Type == schemas.ComponentAPI:
		return schemas.BoundaryDMZ
	case c.Type == schemas.ComponentInverter, c.Type == schemas.ComponentGateway:
		return schemas.BoundaryDevice
	case c.Type == schemas.ComponentMonitoring:
		return schemas.BoundaryManagement
	default:
		return schemas.BoundaryInternal
	}
}

// deriveDataFlows synthesizes data flows from component declarations.
// Each API endpoint implies an inbound HTTPS flow from an external client
// crossing the internet boundary. Each field protocol (Modbus, MQTT) implies
// a telemetry flow toward the monitoring system; Modbus carries no transport
// encryption, MQTT is assumed to run over TLS.
func deriveDataFlows(sys *schemas.System) []schemas.DataFlow {
	var flows []schemas.DataFlow

	for _, c := range sys.Components {
		for _, endpoint := range c.APIEndpoints {
			flows = append(flows, schemas.DataFlow{
				ID:                   fmt.Sprintf("flow_%s_api_%d", c.ID, len(flows)),
				Source:               ExternalClient,
				Destination:          c.ID,
				Description:          fmt.Sprintf("API requests to %s", endpoint),
				Protocol:             "HTTPS",
				Encrypted:            true,
				Authenticated:        true,
				CrossesTrustBoundary: true,
				BoundaryCrossed:      schemas.BoundaryInternet,
			})
		}

		for _, protocol := range c.Protocols {
			p := strings.ToLower(protocol)
			if p != "modbus" && p != "mqtt" {
				continue
			}
			flows = append(flows, schemas.DataFlow{
				ID:            fmt.Sprintf("flow_%s_%s_%d", c.ID, p, len(flows)),
				Source:        c.ID,
				Destination:   MonitoringSystem,
				Description:   fmt.Sprintf("%s telemetry data", strings.ToUpper(p)),
				Protocol:      strings.ToUpper(p),
				Encrypted:     p == "mqtt",
				Authenticated: false,
			})
		}
	}
	return flows
}

// Validate checks the structural integrity of a normalized system model.
func Validate(sys *schemas.System) error {
	if sys.Name == "" {
		return fmt.Errorf("system_name is required")
	}
	if len(sys.Components) == 0 {
		return fmt.Errorf("at least one component is required")
	}

	seen := make(map[string]bool, len(sys.Components))
	for _, c := range sys.Components {
		if c.ID == "" {
			return fmt.Errorf("component %q has no id", c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		seen[c.ID] = true
		if c.CapacityKW < 0 {
			return fmt.Errorf("component %q has negative capacity", c.ID)
		}
	}

	for _, f := range sys.DataFlows {
		if !flowEndpointOK(seen, f.Source) {
			return fmt.Errorf("data flow %q references unknown source %q", f.ID, f.Source)
		}
		if !flowEndpointOK(seen, f.Destination) {
			return fmt.Errorf("data flow %q references unknown destination %q", f.ID, f.Destination)
		}
	}
	return nil
}

func flowEndpointOK(ids map[string]bool, endpoint string) bool {
	return ids[endpoint] || endpoint == ExternalClient || endpoint == MonitoringSystem
}

// Default returns the built-in demonstration deployment: a residential-scale
// inverter, an aggregating IoT gateway and an AEMO VPP integration endpoint.
// It is used whenever no model file is supplied.
func Default() *schemas.System {
	sys := &schemas.System{
		Name:     "SA Residential VPP Segment",
		Location: "Adelaide, South Australia",
		Components: []schemas.Component{
			{
				ID:              "inverter_001",
				Name:            "Solar Inverter SG5KTL",
				Type:            schemas.ComponentInverter,
				Description:     "Primary solar inverter converting DC to AC power",
				Vendor:          "Sungrow",
				Product:         "SG5KTL-20",
				FirmwareVersion: "1.2.3",
				CapacityKW:      5.0,
				Protocols:       []string{"modbus"},
				ProcessesData:   []string{"power_generation_data", "control_commands"},
				StoresData:      []string{"configuration_data", "operational_logs"},
				SecurityControls: []string{
					"basic_authentication",
				},
				ComplianceFlags: map[string]bool{"as4777": true},
			},
			{
				ID:            "gateway_001",
				Name:          "IoT Communication Gateway",
				Type:          schemas.ComponentGateway,
				Description:   "Gateway for aggregating and forwarding inverter data",
				Vendor:        "SolarEdge",
				Product:       "CommGate-X2",
				Protocols:     []string{"mqtt"},
				ProcessesData: []string{"aggregated_telemetry", "control_commands"},
				SecurityControls: []string{
					"encryption",
					"authentication",
				},
			},
			{
				ID:            "api_001",
				Name:          "AEMO VPP API Endpoint",
				Type:          schemas.ComponentAPI,
				Description:   "API endpoint for AEMO Virtual Power Plant integration",
				APIEndpoints:  []string{"/vpp/telemetry", "/vpp/control"},
				ProcessesData: []string{"control_commands", "status_data"},
				SecurityControls: []string{
					"https",
					"api_authentication",
					"rate_limiting",
				},
			},
		},
		Network: schemas.NetworkTopology{
			FirewallEnabled: true,
		},
	}
	Normalize(sys)
	return sys
}
