package migrate

import (
	"context"
	"errors"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/journal"
	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/transformer"
)

// EntityProducts names product runs in logs, metrics and the journal.
const EntityProducts = "products"

// ProductImporter upserts products by SKU.
type ProductImporter struct {
	store       commerce.ProductStore
	processor   *transformer.Processor
	transformer *transformer.ProductTransformer
	log         logger.Sink
	opts        Options
}

// NewProductImporter creates an importer that upserts products through store.
func NewProductImporter(
	store commerce.ProductStore,
	processor *transformer.Processor,
	tr *transformer.ProductTransformer,
	opts Options,
	log logger.Sink,
) *ProductImporter {
	if log == nil {
		log = logger.Nop()
	}

	return &ProductImporter{store: store, processor: processor, transformer: tr, opts: opts, log: log}
}

// Import maps t onto records and upserts the configured window. A header
// that maps no known column fails before any row is dispatched.
func (p *ProductImporter) Import(ctx context.Context, t *ingest.Table) (*Report, error) {
	records, err := p.processor.Records(t.Header, t.Rows)
	if err != nil {
		return nil, err
	}

	opts := p.opts
	if opts.Source == "" {
		opts.Source = t.Path
	}

	return newRunner(EntityProducts, opts, p.log).run(ctx, records, p.upsert)
}

func (p *ProductImporter) upsert(ctx context.Context, rec models.RawRecord) models.Outcome {
	payload, err := p.transformer.Transform(rec)
	if err != nil {
		return rejected(rec, err)
	}

	fingerprint := payloadFingerprint(payload, rec.Index, p.log)

	existing, err := p.store.FindProduct(ctx, payload.SKU)
	if err != nil {
		return withFingerprint(models.Failed(rec.Index, payload.SKU, err), fingerprint)
	}

	if p.opts.DryRun {
		o := models.Skipped(rec.Index, payload.SKU, ReasonDryRun)
		if existing != nil {
			o.RemoteID = existing.ID
		}

		return withFingerprint(o, fingerprint)
	}

	var o models.Outcome

	if existing == nil {
		e, err := p.store.CreateProduct(ctx, payload)
		o = p.result(rec, payload.SKU, e, err, models.Created)
	} else {
		e, err := p.store.UpdateProduct(ctx, existing, payload)
		o = p.result(rec, payload.SKU, e, err, models.Updated)
	}

	return withFingerprint(o, fingerprint)
}

func (p *ProductImporter) result(
	rec models.RawRecord,
	key string,
	e *commerce.Entity,
	err error,
	ok func(int, string, string) models.Outcome,
) models.Outcome {
	if err != nil {
		logPartial(p.log, rec, key, err)

		o := models.Failed(rec.Index, key, err)
		if e != nil {
			o.RemoteID = e.ID
		}

		return o
	}

	return ok(rec.Index, key, e.ID)
}

// rejected converts a transformer error into a skipped or failed outcome.
func rejected(rec models.RawRecord, err error) models.Outcome {
	var skip *transformer.SkipError
	if errors.As(err, &skip) {
		return models.Skipped(rec.Index, "", skip.Reason)
	}

	var pce *transformer.PayloadConstructionError
	if errors.As(err, &pce) {
		return models.Failed(rec.Index, pce.Key, err)
	}

	return models.Failed(rec.Index, "", err)
}

// payloadFingerprint hashes payload for the journal. A payload that cannot be
// encoded gets no fingerprint.
func payloadFingerprint(payload any, row int, log logger.Sink) string {
	fingerprint, err := journal.Fingerprint(payload)
	if err != nil {
		log.Debug("Failed to fingerprint payload", "row", row, "error", err)
		return ""
	}

	return fingerprint
}

func withFingerprint(o models.Outcome, fingerprint string) models.Outcome {
	o.Fingerprint = fingerprint
	return o
}

func logPartial(log logger.Sink, rec models.RawRecord, key string, err error) {
	var partial *commerce.PartialFailureError
	if errors.As(err, &partial) {
		log.Warn("⚠️  Remote entity left partially written, reconcile manually",
			"row", rec.Index,
			"key", key,
			"entity_id", partial.EntityID,
			"failed_step", partial.Step,
			"completed", partial.Completed,
		)
	}
}
