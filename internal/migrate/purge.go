package migrate

import (
	"context"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/transformer"
)

// ReasonNotFound is the skip reason of purge rows with no remote entity.
const ReasonNotFound = "not found"

// Purger deletes the remote entities whose natural keys appear in a CSV
// window. Only the key columns of each row are read.
type Purger struct {
	processor *transformer.Processor
	key       func(models.RawRecord) (string, error)
	find      func(ctx context.Context, key string) (*commerce.Entity, error)
	remove    func(ctx context.Context, id string) (string, error)
	log       logger.Sink
	entity    string
	opts      Options
}

func NewProductPurger(
	store commerce.ProductStore,
	processor *transformer.Processor,
	tr *transformer.ProductTransformer,
	opts Options,
	log logger.Sink,
) *Purger {
	return &Purger{
		processor: processor,
		key:       tr.Key,
		find:      store.FindProduct,
		remove:    store.DeleteProduct,
		log:       log,
		entity:    EntityProducts,
		opts:      opts,
	}
}

func NewCustomerPurger(
	store commerce.CustomerStore,
	processor *transformer.Processor,
	tr *transformer.CustomerTransformer,
	opts Options,
	log logger.Sink,
) *Purger {
	return &Purger{
		processor: processor,
		key:       tr.Key,
		find:      store.FindCustomer,
		remove:    store.DeleteCustomer,
		log:       log,
		entity:    EntityCustomers,
		opts:      opts,
	}
}

// Purge deletes every entity keyed by the configured window of t.
func (p *Purger) Purge(ctx context.Context, t *ingest.Table) (*Report, error) {
	records, err := p.processor.Records(t.Header, t.Rows)
	if err != nil {
		return nil, err
	}

	opts := p.opts
	if opts.Source == "" {
		opts.Source = t.Path
	}

	return newRunner(p.entity, opts, p.log).run(ctx, records, p.delete)
}

func (p *Purger) delete(ctx context.Context, rec models.RawRecord) models.Outcome {
	key, err := p.key(rec)
	if err != nil {
		return rejected(rec, err)
	}

	existing, err := p.find(ctx, key)
	if err != nil {
		return models.Failed(rec.Index, key, err)
	}

	if existing == nil {
		return models.Skipped(rec.Index, key, ReasonNotFound)
	}

	if p.opts.DryRun {
		o := models.Skipped(rec.Index, key, ReasonDryRun)
		o.RemoteID = existing.ID

		return o
	}

	deletedID, err := p.remove(ctx, existing.ID)
	if err != nil {
		return models.Failed(rec.Index, key, err)
	}

	return models.Deleted(rec.Index, key, deletedID)
}
