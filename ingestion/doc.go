// Package ingestion is the core of imgest: collection provisioning and
// the batch insertion pipeline.
//
// The Provisioner ensures the target collection exists with the desired
// schema, or intentionally skips/replaces it based on caller intent. Its
// outcome gates the pipeline: a Skipped outcome means the existing
// collection's schema is unverified and ingestion must not run.
//
// The Pipeline drives the dataset sequence to completion, one item at a
// time: load image, extract features, select the best caption, insert a
// single record, and account for the store's acknowledgment. Individual
// item failures are logged and contained; the run continues and the final
// result reflects only successes.
//
// By default the loop is strictly sequential. WithPoolSize enables a
// bounded worker pool for independent items; the attempted and inserted
// counters are then updated atomically.
package ingestion
