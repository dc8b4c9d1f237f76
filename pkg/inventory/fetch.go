package inventory

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/pure1"
)

// FleetClient is the slice of the fleet directory service this package
// consumes. *pure1.Client satisfies it.
type FleetClient interface {
	GetArrays(ctx context.Context, filter string) (*pure1.ArraysResponse, error)
	GetArrayTags(ctx context.Context) (*pure1.TagsResponse, error)
	GetNetworkInterfaces(ctx context.Context, filter string) (*pure1.NetworkInterfacesResponse, error)
}

// TagIndex maps array name to its collapsed tag mapping.
type TagIndex map[string]map[string]string

// Get returns the tags for an array, defaulting to an empty mapping.
func (t TagIndex) Get(name string) map[string]string {
	if tags, ok := t[name]; ok {
		return tags
	}
	return map[string]string{}
}

// NetIndex maps array name to its one resolved virtual-interface address.
type NetIndex map[string]string

// virtualMarker identifies virtual interfaces, the only kind whose
// address is usable as a management URL.
const virtualMarker = "vir"

var virtualInterfaceFilter = fmt.Sprintf("contains(name, '%s')", virtualMarker)

// CombineFilters merges the optional array filter and tag filter into one
// conjunctive Pure1 filter expression. Empty when neither is set.
func CombineFilters(arrayFilter string, tagFilter *config.TagFilter) string {
	filter := arrayFilter
	if tagFilter.Complete() {
		if filter != "" {
			filter += " and "
		}
		filter += fmt.Sprintf("tags('%s','%s')", tagFilter.TagName, tagFilter.Value)
	}
	return filter
}

// FetchArrays retrieves the fully materialized array list for the given
// filter expression.
func FetchArrays(ctx context.Context, client FleetClient, filter string) ([]pure1.Array, error) {
	resp, err := client.GetArrays(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("arrays query: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newFetchError("arrays", resp.StatusCode, resp.Errors)
	}
	return resp.Items, nil
}

// BuildTagIndex retrieves all tags and indexes them by owning array.
// Duplicate keys within one array resolve last-write-wins in response
// order.
func BuildTagIndex(ctx context.Context, client FleetClient) (TagIndex, error) {
	resp, err := client.GetArrayTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("tags query: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newFetchError("array tags", resp.StatusCode, resp.Errors)
	}
	index := TagIndex{}
	for _, tag := range resp.Items {
		owner := tag.Resource.Name
		if _, ok := index[owner]; !ok {
			index[owner] = map[string]string{}
		}
		index[owner][tag.Key] = tag.Value
	}
	return index, nil
}

// BuildNetIndex retrieves virtual network interfaces and indexes one
// address per owning array. The name is re-checked locally even though
// the query already filters on it. When several eligible interfaces map
// to one array the last one processed wins.
func BuildNetIndex(ctx context.Context, client FleetClient) (NetIndex, error) {
	resp, err := client.GetNetworkInterfaces(ctx, virtualInterfaceFilter)
	if err != nil {
		return nil, fmt.Errorf("network interfaces query: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newFetchError("network interfaces", resp.StatusCode, resp.Errors)
	}
	index := NetIndex{}
	for _, iface := range resp.Items {
		if !strings.Contains(iface.Name, virtualMarker) {
			continue
		}
		if iface.Address == "" || len(iface.Arrays) == 0 {
			continue
		}
		index[iface.Arrays[0].Name] = iface.Address
	}
	return index, nil
}
