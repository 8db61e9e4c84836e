// File: internal/cvedb/cvedb.go

// Package cvedb matches system components against a built-in table of known
// vulnerabilities in solar and DER equipment. The table is curated by hand
// and versioned with the binary; there is no live NVD feed.
package cvedb

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// DB is an in-memory CVE table.
type DB struct {
	records []schemas.CVERecord
}

// New returns a DB loaded with the built-in vulnerability table.
func New() *DB {
	return &DB{records: builtinRecords}
}

// NewWithRecords returns a DB over a caller-supplied table. Used in tests.
func NewWithRecords(records []schemas.CVERecord) *DB {
	return &DB{records: records}
}

// Len reports the number of records in the table.
func (db *DB) Len() int { return len(db.records) }

// Match returns the CVE records applicable to a single component, ordered by
// CVSS score descending. A record applies when its vendor and product both
// match the component; version information narrows the match and raises
// confidence.
func (db *DB) Match(c schemas.Component) []schemas.CVEMatch {
	if c.Vendor == "" && c.Product == "" {
		return nil
	}
	vendor := strings.ToLower(c.Vendor)
	product := strings.ToLower(c.Product)

	var matches []schemas.CVEMatch
	for _, rec := range db.records {
		if vendor == "" || !strings.Contains(vendor, strings.ToLower(rec.Vendor)) {
			continue
		}
		if product == "" || !strings.Contains(product, strings.ToLower(rec.Product)) {
			continue
		}

		match := schemas.CVEMatch{
			CVE:         rec,
			ComponentID: c.ID,
			Confidence:  0.7,
			MatchType:   "vendor_product",
			Evidence: []string{
				"vendor " + c.Vendor + " matches " + rec.Vendor,
				"product " + c.Product + " matches " + rec.Product,
			},
		}

		if c.FirmwareVersion != "" {
			applies, matchType, confidence := versionApplies(rec, c.FirmwareVersion)
			if !applies {
				continue
			}
			if matchType != "" {
				match.MatchType = matchType
				match.Confidence = confidence
				match.Evidence = append(match.Evidence,
					"firmware "+c.FirmwareVersion+" is in the affected range")
			}
		}

		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CVE.CVSSScore > matches[j].CVE.CVSSScore
	})
	return matches
}

// MatchSystem runs Match over every component and aggregates the results.
func (db *DB) MatchSystem(sys *schemas.System) *schemas.CVESummary {
	summary := &schemas.CVESummary{
		BySeverity:  make(map[schemas.Severity]int),
		ByComponent: make(map[string]int),
	}

	for _, c := range sys.Components {
		for _, m := range db.Match(c) {
			summary.Matches = append(summary.Matches, m)
			summary.BySeverity[m.CVE.Severity()]++
			summary.ByComponent[m.ComponentID]++
			if m.CVE.CVSSScore > summary.HighestCVSSScore {
				summary.HighestCVSSScore = m.CVE.CVSSScore
			}
		}
	}
	summary.TotalMatches = len(summary.Matches)

	sorted := make([]schemas.CVEMatch, len(summary.Matches))
	copy(sorted, summary.Matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CVE.CVSSScore > sorted[j].CVE.CVSSScore
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	summary.TopCVEs = sorted

	return summary
}

// versionApplies reports whether a record's version constraints cover the
// given firmware version. Records with no version data apply to every
// version at the base confidence.
func versionApplies(rec schemas.CVERecord, version string) (bool, string, float64) {
	if rec.VersionExact != "" {
		if compareVersions(version, rec.VersionExact) == 0 {
			return true, "exact", 1.0
		}
		return false, "", 0
	}

	if rec.VersionStart == "" && rec.VersionEnd == "" {
		return true, "", 0
	}
	if rec.VersionStart != "" && compareVersions(version, rec.VersionStart) < 0 {
		return false, "", 0
	}
	if rec.VersionEnd != "" && compareVersions(version, rec.VersionEnd) > 0 {
		return false, "", 0
	}
	return true, "version_range", 0.9
}

// compareVersions compares dotted version strings numerically, falling back
// to lexical comparison for non-numeric segments.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}

		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
	}
	return 0
}
