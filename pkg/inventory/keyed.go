package inventory

import (
	"sort"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
)

// Value is the closed set of shapes a host variable can take. Each shape
// carries its own keyed-group fan-out rule.
type Value interface {
	// groupSuffixes returns the suffixes this value derives, one group
	// per suffix.
	groupSuffixes() []string
}

// Scalar is a single string value. It derives one group named after the
// value itself.
type Scalar string

func (s Scalar) groupSuffixes() []string {
	return []string{string(s)}
}

// List is a sequence of scalar values. It derives one group per element.
type List []string

func (l List) groupSuffixes() []string {
	return append([]string(nil), l...)
}

// Mapping is a string-to-string mapping. It derives one group per key;
// keys are walked in sorted order so derivation is stable.
type Mapping map[string]string

func (m Mapping) groupSuffixes() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EvaluateKeyedGroups interprets the keyed-group rules against one host's
// variables and returns the derived group names, each <prefix>_<suffix>.
// A rule whose key is absent fails with *KeyedGroupError in strict mode
// and is skipped otherwise.
func EvaluateKeyedGroups(rules []config.KeyedGroup, vars HostVars, host string, strict bool) ([]string, error) {
	var groups []string
	for _, rule := range rules {
		value, ok := vars.Lookup(rule.Key)
		if !ok {
			if strict {
				return nil, &KeyedGroupError{Host: host, Key: rule.Key}
			}
			continue
		}
		for _, suffix := range value.groupSuffixes() {
			groups = append(groups, rule.Prefix+"_"+suffix)
		}
	}
	return groups, nil
}
