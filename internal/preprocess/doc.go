// Package preprocess runs the per-folder transform chains that rewrite a
// scene folder's clips before they are sorted and stacked: temporal trims,
// black-border autocrop, multi-stage size normalization and placeholder
// synthesis.
//
// Which chain a folder gets is data, not code: a [Registry] of [Plan]
// entries keyed by exact folder name or name prefix. The built-in registry
// is embedded from plans.toml; a user file replaces it.
//
// Every step reads only source clips (derived variants such as _cropped
// or _trimmed files are ignored when looking for inputs) and always
// re-transcodes, so re-running a plan rewrites the same outputs from the
// same sources.
package preprocess
