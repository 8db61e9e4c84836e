package schemas

// -- System Model Schemas --

// ComponentType classifies the role a component plays in the deployment.
// The values are lowercase to match the hand-authored system model files.
type ComponentType string

const (
	ComponentInverter     ComponentType = "solar_inverter"
	ComponentGateway      ComponentType = "gateway"
	ComponentAPI          ComponentType = "api"
	ComponentDatabase     ComponentType = "database"
	ComponentWebInterface ComponentType = "web_interface"
	ComponentMonitoring   ComponentType = "monitoring_system"
)

// TrustBoundary identifies the network zone a component lives in. Boundaries
// are derived from the component type and its internet exposure rather than
// declared in the model file.
type TrustBoundary string

const (
	BoundaryInternet   TrustBoundary = "INTERNET"
	BoundaryDMZ        TrustBoundary = "DMZ"
	BoundaryInternal   TrustBoundary = "INTERNAL_NETWORK"
	BoundaryDevice     TrustBoundary = "DEVICE_NETWORK"
	BoundaryManagement TrustBoundary = "MANAGEMENT_NETWORK"
)

// Component is a single element of the modeled deployment: an inverter, a
// gateway, an API endpoint, and so on. The JSON tags match the system model
// file format.
type Component struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        ComponentType `json:"type"`
	Description string        `json:"description,omitempty"`

	Vendor          string  `json:"vendor,omitempty"`
	Product         string  `json:"product,omitempty"`
	FirmwareVersion string  `json:"firmware_version,omitempty"`
	CapacityKW      float64 `json:"capacity_kw,omitempty"`

	InternetFacing bool     `json:"internet_facing,omitempty"`
	Protocols      []string `json:"protocols,omitempty"`
	APIEndpoints   []string `json:"api_endpoints,omitempty"`

	ProcessesData []string `json:"processes_data,omitempty"`
	StoresData    []string `json:"stores_data,omitempty"`

	ExternalDependencies []string `json:"external_dependencies,omitempty"`
	SecurityControls     []string `json:"security_controls,omitempty"`
	Features             []string `json:"features,omitempty"`

	// ComplianceFlags records standards the operator claims the component
	// meets (e.g. "as4777": true). Claims still require verification.
	ComplianceFlags map[string]bool `json:"compliance_requirements,omitempty"`

	// TrustBoundary is populated by the model loader, never by the file.
	TrustBoundary TrustBoundary `json:"trust_boundary,omitempty"`
}

// DataFlow describes data moving between two components. Flows that cross a
// trust boundary without encryption or authentication are prime threat
// candidates.
type DataFlow struct {
	ID          string `json:"id"`
	Source      string `json:"source_component"`
	Destination string `json:"destination_component"`
	Description string `json:"data_description,omitempty"`
	Protocol    string `json:"protocol"`

	Encrypted     bool `json:"encryption_in_transit"`
	Authenticated bool `json:"authentication_required"`

	CrossesTrustBoundary bool          `json:"crosses_trust_boundary"`
	BoundaryCrossed      TrustBoundary `json:"trust_boundary_crossed,omitempty"`

	Frequency string   `json:"frequency,omitempty"`
	DataTypes []string `json:"data_types,omitempty"`
}

// NetworkTopology captures coarse network-level defenses declared for the
// whole deployment.
type NetworkTopology struct {
	FirewallEnabled     bool `json:"firewall_enabled"`
	NetworkSegmentation bool `json:"network_segmentation"`
	IntrusionDetection  bool `json:"intrusion_detection"`
}

// System is the full static description of the assessed deployment.
type System struct {
	Name       string          `json:"system_name"`
	Location   string          `json:"location,omitempty"`
	Components []Component     `json:"components"`
	DataFlows  []DataFlow      `json:"data_flows,omitempty"`
	Network    NetworkTopology `json:"network_topology,omitempty"`
}

// TotalCapacityKW sums the rated capacity of every component. Only
// generation hardware carries a capacity, so gateways and APIs contribute 0.
func (s *System) TotalCapacityKW() float64 {
	var total float64
	for _, c := range s.Components {
		total += c.CapacityKW
	}
	return total
}

// ComponentByID returns the component with the given id, or nil.
func (s *System) ComponentByID(id string) *Component {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i]
		}
	}
	return nil
}
