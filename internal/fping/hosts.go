package fping

import "fping-monitor/internal/models"

// ResolveHosts flattens the groups into the address list passed to fping.
// Duplicates are dropped keeping first-seen order.
func ResolveHosts(groups []models.Group) []string {
	seen := make(map[string]struct{})
	hosts := make([]string, 0)
	for _, group := range groups {
		for _, entry := range group.Hosts {
			addr := entry.Address()
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			hosts = append(hosts, addr)
		}
	}
	return hosts
}
