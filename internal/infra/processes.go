package infra

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"netmend/internal/domain"
)

// GopsutilProcessFinder implements domain.ProcessFinder using gopsutil.
type GopsutilProcessFinder struct{}

// NewProcessFinder creates a process finder.
func NewProcessFinder() *GopsutilProcessFinder {
	return &GopsutilProcessFinder{}
}

// FindByNameFragments returns names of running processes whose name contains
// any fragment (case-insensitive), deduplicated in scan order. Enumeration
// failures yield an empty result: process discovery is always best-effort.
func (f *GopsutilProcessFinder) FindByNameFragments(fragments []string) []string {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	var found []string
	seen := make(map[string]bool)

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		lower := strings.ToLower(name)
		for _, frag := range fragments {
			if frag == "" || !strings.Contains(lower, strings.ToLower(frag)) {
				continue
			}
			if !seen[name] {
				seen[name] = true
				found = append(found, name)
			}
			break
		}
	}
	return found
}

// Ensure GopsutilProcessFinder implements domain.ProcessFinder.
var _ domain.ProcessFinder = (*GopsutilProcessFinder)(nil)
