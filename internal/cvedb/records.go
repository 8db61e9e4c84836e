// File: internal/cvedb/records.go
package cvedb

import (
	"time"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// builtinRecords is the curated vulnerability table shipped with the binary.
// It covers inverter, gateway and monitoring equipment commonly deployed in
// Australian residential VPP fleets.
var builtinRecords = []schemas.CVERecord{
	{
		ID:            "CVE-2024-50691",
		Vendor:        "Sungrow",
		Product:       "SG5KTL",
		VersionEnd:    "1.3.0",
		Description:   "Insufficient authentication on the local Modbus TCP management interface allows unauthenticated configuration changes, including export limit and power curtailment setpoints.",
		CVSSScore:     8.6,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:L/I:H/A:L",
		CWEID:         "CWE-306",
		AttackVector:  "ADJACENT",
		PublishedDate: time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC),
		References: []string{
			"https://nvd.nist.gov/vuln/detail/CVE-2024-50691",
		},
	},
	{
		ID:            "CVE-2024-50684",
		Vendor:        "Sungrow",
		Product:       "WiNet-S",
		VersionEnd:    "200.001.00.P027",
		Description:   "Hard-coded MQTT credentials in the WiNet-S communication dongle firmware allow remote actors to publish control messages to connected inverters.",
		CVSSScore:     9.1,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:N",
		CWEID:         "CWE-798",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC),
		References: []string{
			"https://nvd.nist.gov/vuln/detail/CVE-2024-50684",
		},
	},
	{
		ID:            "CVE-2022-29303",
		Vendor:        "Contec",
		Product:       "SolarView Compact",
		VersionEnd:    "6.00",
		Description:   "OS command injection in conf_mail.php allows remote unauthenticated attackers to execute arbitrary commands on the monitoring appliance.",
		CVSSScore:     9.8,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		CWEID:         "CWE-78",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2022, 5, 12, 0, 0, 0, 0, time.UTC),
		References: []string{
			"https://nvd.nist.gov/vuln/detail/CVE-2022-29303",
		},
	},
	{
		ID:            "CVE-2023-23333",
		Vendor:        "Contec",
		Product:       "SolarView Compact",
		VersionEnd:    "8.00",
		Description:   "Command injection in downloader.php allows remote code execution on internet-exposed SolarView monitoring units.",
		CVSSScore:     9.8,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		CWEID:         "CWE-78",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2023, 2, 2, 0, 0, 0, 0, time.UTC),
		References: []string{
			"https://nvd.nist.gov/vuln/detail/CVE-2023-23333",
		},
	},
	{
		ID:            "CVE-2023-28343",
		Vendor:        "SolarEdge",
		Product:       "CommGate",
		VersionStart:  "1.0.0",
		VersionEnd:    "2.4.1",
		Description:   "The gateway's web configuration portal transmits session tokens over unencrypted HTTP, allowing credential capture on the local network segment.",
		CVSSScore:     7.4,
		CVSSVector:    "CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:N",
		CWEID:         "CWE-319",
		AttackVector:  "ADJACENT",
		PublishedDate: time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:            "CVE-2019-19229",
		Vendor:        "Fronius",
		Product:       "Symo",
		VersionEnd:    "3.14.1",
		Description:   "The Datamanager web interface discloses the administrator password hash to unauthenticated requests against a backup endpoint.",
		CVSSScore:     7.5,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N",
		CWEID:         "CWE-200",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2019, 12, 11, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:            "CVE-2021-34601",
		Vendor:        "SMA",
		Product:       "Sunny Boy",
		VersionExact:  "3.20.13.R",
		Description:   "Predictable session identifiers in the Webconnect module allow session hijacking of authenticated installer sessions.",
		CVSSScore:     6.5,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:L/I:L/A:N",
		CWEID:         "CWE-330",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2021, 8, 3, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:            "CVE-2022-26269",
		Vendor:        "GoodWe",
		Product:       "SEMS Portal",
		Description:   "Insecure direct object references in the fleet management API expose telemetry and configuration for arbitrary plant identifiers.",
		CVSSScore:     8.2,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:U/C:H/I:L/A:N",
		CWEID:         "CWE-639",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2022, 3, 18, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:            "CVE-2020-14511",
		Vendor:        "Moxa",
		Product:       "MGate",
		VersionEnd:    "2.2",
		Description:   "A buffer overflow in the built-in web server of MGate Modbus gateways allows remote code execution with root privileges.",
		CVSSScore:     9.8,
		CVSSVector:    "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		CWEID:         "CWE-120",
		AttackVector:  "NETWORK",
		PublishedDate: time.Date(2020, 7, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		ID:            "CVE-2020-25187",
		Vendor:        "Enphase",
		Product:       "Envoy",
		VersionEnd:    "4.10.35",
		Description:   "Default installer credentials grant privileged access to the Envoy gateway's local API, including grid profile modification.",
		CVSSScore:     8.8,
		CVSSVector:    "CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		CWEID:         "CWE-1188",
		AttackVector:  "ADJACENT",
		PublishedDate: time.Date(2020, 9, 30, 0, 0, 0, 0, time.UTC),
	},
}
