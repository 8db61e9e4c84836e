// File: internal/compliance/requirements.go
package compliance

import (
	"time"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// AEMORequirements returns the AEMO Virtual Power Plant obligations assessed
// by this tool.
func AEMORequirements() []schemas.ComplianceRequirement {
	return []schemas.ComplianceRequirement{
		{
			ID:          "AEMO_VPP_001",
			Framework:   schemas.FrameworkAEMOVPP,
			Title:       "Mandatory Remote Access for Grid Management",
			Description: "Solar inverters must provide remote access capability to AEMO for grid stability management",
			Mandatory:   true,
			Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"API endpoint available for AEMO access",
				"Real-time status reporting implemented",
				"Remote control capability enabled",
				"Response time under 5 seconds for control commands",
			},
			VerificationMethod: "Technical audit and testing",
			Penalty:            "Disconnection from grid, financial penalties up to $10,000",
			RelatedControls:    []string{"api_authentication", "secure_communications", "access_logging"},
			AffectedComponents: []string{"api_endpoint", "communication_gateway", "solar_inverter"},
		},
		{
			ID:          "AEMO_VPP_002",
			Framework:   schemas.FrameworkAEMOVPP,
			Title:       "Real-time Telemetry Data Provision",
			Description: "Continuous provision of operational telemetry data to AEMO systems",
			Mandatory:   true,
			Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"Telemetry data transmitted every 5 minutes maximum",
				"Data accuracy within ±2% tolerance",
				"99.5% uptime requirement for data transmission",
				"Standardized data format compliance",
			},
			VerificationMethod: "Automated monitoring and periodic audits",
			Penalty:            "Warning notices, potential grid disconnection",
			RelatedControls:    []string{"data_encryption", "integrity_checking", "availability_monitoring"},
			AffectedComponents: []string{"monitoring_system", "communication_gateway"},
		},
		{
			ID:          "AEMO_VPP_003",
			Framework:   schemas.FrameworkAEMOVPP,
			Title:       "Cybersecurity Standards Implementation",
			Description: "Implementation of cybersecurity controls to protect grid-connected systems",
			// Currently recommended, not mandatory.
			Mandatory: false,
			Deadline:  time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"Encryption of all remote communications",
				"Multi-factor authentication for administrative access",
				"Regular security assessments conducted",
				"Incident response procedures documented",
			},
			VerificationMethod: "Security audit and documentation review",
			Penalty:            "Future regulatory action possible",
			RelatedControls:    []string{"encryption", "authentication", "incident_response", "security_monitoring"},
			AffectedComponents: []string{"all_components"},
		},
		{
			ID:          "AEMO_VPP_004",
			Framework:   schemas.FrameworkAEMOVPP,
			Title:       "Emergency Response Capability",
			Description: "Ability to respond to emergency grid management commands within specified timeframes",
			Mandatory:   true,
			Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"Emergency shutdown capability within 2 seconds",
				"Power output limitation response within 5 seconds",
				"Status confirmation transmitted within 10 seconds",
				"Manual override capability maintained",
			},
			VerificationMethod: "Emergency response testing and drills",
			Penalty:            "Immediate grid disconnection, regulatory investigation",
			RelatedControls:    []string{"command_validation", "emergency_procedures", "system_monitoring"},
			AffectedComponents: []string{"solar_inverter", "api_endpoint", "communication_gateway"},
		},
	}
}

// AS4777Requirements returns the AS/NZS 4777 grid-connection obligations.
func AS4777Requirements() []schemas.ComplianceRequirement {
	return []schemas.ComplianceRequirement{
		{
			ID:          "AS4777_001",
			Framework:   schemas.FrameworkAS4777,
			Title:       "Voltage Response Requirements",
			Description: "Inverter must respond appropriately to voltage variations",
			Mandatory:   true,
			Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"Voltage ride-through capability implemented",
				"Voltage regulation response within specified timeframes",
				"Over/under voltage protection mechanisms",
				"Voltage monitoring and reporting capability",
			},
			VerificationMethod: "Laboratory testing and field verification",
			Penalty:            "Grid connection refusal or disconnection",
			RelatedControls:    []string{"voltage_monitoring", "protection_systems"},
			AffectedComponents: []string{"solar_inverter"},
		},
		{
			ID:          "AS4777_002",
			Framework:   schemas.FrameworkAS4777,
			Title:       "Frequency Response Requirements",
			Description: "Inverter must respond to frequency variations to support grid stability",
			Mandatory:   true,
			Deadline:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Criteria: []string{
				"Frequency ride-through capability",
				"Over/under frequency protection",
				"Frequency response within 2 seconds",
				"Frequency monitoring accuracy ±0.01 Hz",
			},
			VerificationMethod: "Type testing and commissioning verification",
			Penalty:            "Grid connection rejection",
			RelatedControls:    []string{"frequency_monitoring", "response_systems"},
			AffectedComponents: []string{"solar_inverter"},
		},
	}
}
