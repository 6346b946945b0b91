package migrate

import (
	"context"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/transformer"
)

// EntityCustomers names customer runs in logs, metrics and the journal.
const EntityCustomers = "customers"

// CustomerImporter upserts customers by email.
type CustomerImporter struct {
	store       commerce.CustomerStore
	processor   *transformer.Processor
	transformer *transformer.CustomerTransformer
	log         logger.Sink
	opts        Options
}

// NewCustomerImporter creates an importer that upserts customers through store.
func NewCustomerImporter(
	store commerce.CustomerStore,
	processor *transformer.Processor,
	tr *transformer.CustomerTransformer,
	opts Options,
	log logger.Sink,
) *CustomerImporter {
	if log == nil {
		log = logger.Nop()
	}

	return &CustomerImporter{store: store, processor: processor, transformer: tr, opts: opts, log: log}
}

// Import maps t onto records and upserts the configured window.
func (c *CustomerImporter) Import(ctx context.Context, t *ingest.Table) (*Report, error) {
	records, err := c.processor.Records(t.Header, t.Rows)
	if err != nil {
		return nil, err
	}

	opts := c.opts
	if opts.Source == "" {
		opts.Source = t.Path
	}

	return newRunner(EntityCustomers, opts, c.log).run(ctx, records, c.upsert)
}

func (c *CustomerImporter) upsert(ctx context.Context, rec models.RawRecord) models.Outcome {
	payload, err := c.transformer.Transform(rec)
	if err != nil {
		return rejected(rec, err)
	}

	fingerprint := payloadFingerprint(payload, rec.Index, c.log)

	existing, err := c.store.FindCustomer(ctx, payload.Email)
	if err != nil {
		return withFingerprint(models.Failed(rec.Index, payload.Email, err), fingerprint)
	}

	if c.opts.DryRun {
		o := models.Skipped(rec.Index, payload.Email, ReasonDryRun)
		if existing != nil {
			o.RemoteID = existing.ID
		}

		return withFingerprint(o, fingerprint)
	}

	var (
		e  *commerce.Entity
		ok = models.Created
	)

	if existing == nil {
		e, err = c.store.CreateCustomer(ctx, payload)
	} else {
		ok = models.Updated
		e, err = c.store.UpdateCustomer(ctx, existing.ID, payload)
	}

	if err != nil {
		return withFingerprint(models.Failed(rec.Index, payload.Email, err), fingerprint)
	}

	return withFingerprint(ok(rec.Index, payload.Email, e.ID), fingerprint)
}
