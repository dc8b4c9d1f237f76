package inventory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/logging"
	"github.com/x1thexxx-lgtm/fleetinv/pkg/pure1"
)

// Builder assembles the host catalog from a fleet client and config.
type Builder struct {
	client FleetClient
	cfg    *config.Config
	log    *logging.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(client FleetClient, cfg *config.Config, log *logging.Logger) *Builder {
	return &Builder{client: client, cfg: cfg, log: log}
}

// Build runs one full, stateless rebuild: the three datasets are fetched
// concurrently, then assembled in a single synchronous pass. The first
// fetch failure cancels the remaining queries and aborts the run.
func (b *Builder) Build(ctx context.Context) (*Inventory, error) {
	var (
		arrays []pure1.Array
		tags   TagIndex
		nets   NetIndex
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		filter := CombineFilters(b.cfg.ArrayFilter, b.cfg.TagFilter)
		var err error
		arrays, err = FetchArrays(ctx, b.client, filter)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = BuildTagIndex(ctx, b.client)
		return err
	})
	g.Go(func() error {
		var err error
		nets, err = BuildNetIndex(ctx, b.client)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.log.Debugf("fetched %d arrays, tags for %d arrays, addresses for %d arrays",
		len(arrays), len(tags), len(nets))
	return Assemble(arrays, tags, nets, b.cfg.KeyedGroups, b.cfg.Strict, b.log)
}

// Assemble joins the three datasets by array name into the final
// inventory. Arrays matching no hardware family are skipped. Keyed-group
// rules are evaluated per host; in strict mode a missing source variable
// aborts assembly.
func Assemble(arrays []pure1.Array, tags TagIndex, nets NetIndex,
	keyed []config.KeyedGroup, strict bool, log *logging.Logger) (*Inventory, error) {

	inv := NewInventory()
	inv.AddGroup(GroupFlashArray)
	inv.AddGroup(GroupFlashBlade)

	for _, array := range arrays {
		family := ClassifyOS(array.OS)
		if family == FamilyUnclassified {
			log.Warnf("array %s: os %q matches no hardware family, skipping", array.Name, array.OS)
			continue
		}
		vars := HostVars{
			Model:   array.Model,
			Version: array.Version,
			Tags:    tags.Get(array.Name),
		}
		if address, ok := nets[array.Name]; ok {
			family.setAddress(&vars, address)
		}
		inv.AddHost(array.Name, family.Group(), vars)

		derived, err := EvaluateKeyedGroups(keyed, vars, array.Name, strict)
		if err != nil {
			return nil, err
		}
		for _, group := range derived {
			inv.AddHostToGroup(array.Name, group)
		}
	}
	return inv, nil
}
