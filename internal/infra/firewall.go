package infra

import (
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"netmend/internal/domain"
)

// ownerUIDRe matches iptables owner-match rules ("owner UID match 1000").
var ownerUIDRe = regexp.MustCompile(`owner UID match (\d+)`)

// IptablesAnalyzer implements domain.FirewallAnalyzer over `iptables -L -n -v`
// output. It only interprets text handed to it; running the privileged query
// is the diagnostic engine's job.
type IptablesAnalyzer struct{}

// NewIptablesAnalyzer creates an analyzer.
func NewIptablesAnalyzer() *IptablesAnalyzer {
	return &IptablesAnalyzer{}
}

// HasBlockingRules reports whether any rule line carries a drop/reject
// target.
func (a *IptablesAnalyzer) HasBlockingRules(ruleOutput string) bool {
	for _, line := range strings.Split(ruleOutput, "\n") {
		if strings.Contains(line, "DROP") || strings.Contains(line, "REJECT") {
			return true
		}
	}
	return false
}

// BlockedUIDs extracts UIDs from DROP/REJECT owner rules, skipping system
// UIDs below domain.MinUserUID, deduplicated in first-seen order.
func (a *IptablesAnalyzer) BlockedUIDs(ruleOutput string) []int {
	var uids []int
	seen := make(map[int]bool)

	for _, line := range strings.Split(ruleOutput, "\n") {
		if !strings.Contains(line, "DROP") && !strings.Contains(line, "REJECT") {
			continue
		}
		m := ownerUIDRe.FindStringSubmatch(line)
		if len(m) != 2 {
			continue
		}
		uid, err := strconv.Atoi(m[1])
		if err != nil || uid < domain.MinUserUID || seen[uid] {
			continue
		}
		seen[uid] = true
		uids = append(uids, uid)
	}
	return uids
}

// ResolveOwners maps UIDs to account labels. Unresolvable UIDs keep a
// "uid:<n>" label so the aggregated issue still names every blocker.
func (a *IptablesAnalyzer) ResolveOwners(uids []int) []string {
	labels := make([]string, 0, len(uids))
	for _, uid := range uids {
		u, err := user.LookupId(strconv.Itoa(uid))
		if err != nil || u.Username == "" {
			labels = append(labels, "uid:"+strconv.Itoa(uid))
			continue
		}
		labels = append(labels, u.Username)
	}
	return labels
}

// Ensure IptablesAnalyzer implements domain.FirewallAnalyzer.
var _ domain.FirewallAnalyzer = (*IptablesAnalyzer)(nil)
