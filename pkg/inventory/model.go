package inventory

import (
	"encoding/json"
	"sort"
)

// HostVars holds the variables attached to one inventory host. Fixed
// fields cover the attributes every host carries; Tags is the open-ended
// annotation mapping joined in from the tag dataset. Exactly one of FAURL
// and FBURL may be set, matching the host's hardware family.
type HostVars struct {
	Model   string            `json:"pure_model"`
	Version string            `json:"pure_version"`
	Tags    map[string]string `json:"tags"`
	FAURL   string            `json:"fa_url,omitempty"`
	FBURL   string            `json:"fb_url,omitempty"`
}

// Lookup resolves a variable name to its value shape. The second return
// is false when the variable is not set on this host.
func (v HostVars) Lookup(key string) (Value, bool) {
	switch key {
	case "pure_model":
		return Scalar(v.Model), true
	case "pure_version":
		return Scalar(v.Version), true
	case "tags":
		return Mapping(v.Tags), true
	case "fa_url":
		if v.FAURL == "" {
			return nil, false
		}
		return Scalar(v.FAURL), true
	case "fb_url":
		if v.FBURL == "" {
			return nil, false
		}
		return Scalar(v.FBURL), true
	default:
		return nil, false
	}
}

// Inventory is the assembled host catalog: named groups of hosts plus a
// variable set per host.
type Inventory struct {
	groups map[string]map[string]struct{}
	hosts  map[string]HostVars
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		groups: map[string]map[string]struct{}{},
		hosts:  map[string]HostVars{},
	}
}

// AddGroup registers a group, which may stay empty.
func (inv *Inventory) AddGroup(name string) {
	if _, ok := inv.groups[name]; !ok {
		inv.groups[name] = map[string]struct{}{}
	}
}

// AddHost registers a host in a group with its variables.
func (inv *Inventory) AddHost(name, group string, vars HostVars) {
	if vars.Tags == nil {
		vars.Tags = map[string]string{}
	}
	inv.hosts[name] = vars
	inv.AddHostToGroup(name, group)
}

// AddHostToGroup adds a host to a group, creating the group if needed.
func (inv *Inventory) AddHostToGroup(name, group string) {
	inv.AddGroup(group)
	inv.groups[group][name] = struct{}{}
}

// Groups returns all group names, sorted.
func (inv *Inventory) Groups() []string {
	names := make([]string, 0, len(inv.groups))
	for name := range inv.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupHosts returns the sorted host members of a group. Unknown groups
// yield an empty slice.
func (inv *Inventory) GroupHosts(group string) []string {
	members := inv.groups[group]
	hosts := make([]string, 0, len(members))
	for name := range members {
		hosts = append(hosts, name)
	}
	sort.Strings(hosts)
	return hosts
}

// Hosts returns all host names, sorted.
func (inv *Inventory) Hosts() []string {
	names := make([]string, 0, len(inv.hosts))
	for name := range inv.hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostVars returns the variable set for a host.
func (inv *Inventory) HostVars(name string) (HostVars, bool) {
	vars, ok := inv.hosts[name]
	return vars, ok
}

type groupDoc struct {
	Hosts []string `json:"hosts"`
}

type metaDoc struct {
	HostVars map[string]HostVars `json:"hostvars"`
}

// Render produces the dynamic-inventory JSON document: one entry per
// group listing its hosts, plus host variables under _meta.hostvars.
// Lists are sorted so identical input snapshots render identical bytes.
func (inv *Inventory) Render() ([]byte, error) {
	doc := map[string]interface{}{
		"_meta": metaDoc{HostVars: inv.hosts},
	}
	for _, group := range inv.Groups() {
		doc[group] = groupDoc{Hosts: inv.GroupHosts(group)}
	}
	return json.MarshalIndent(doc, "", "  ")
}
