// SPDX-License-Identifier: MPL-2.0

// Package orchestrator drives the per-module pipeline over every
// subdirectory of a modules root:
//
//	manifest -> compatibility gate -> build -> export -> brochure
//
// Each module ends in exactly one report entry (Skipped, Failed or Packaged).
// A module's failure, including a panic, never stops the rest of the batch.
// Pipelines run on a bounded worker pool; the report keeps discovery order.
package orchestrator
