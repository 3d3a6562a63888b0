// Package pipeline orchestrates scene-folder discovery, per-folder
// processing, and batch summary reporting.
//
// Each scene folder goes through classify → preprocess (when a plan
// matches) → sort → probe → compose. Folders share nothing but the output
// directory and are processed by a bounded worker pool; a folder's failure
// is recorded in its [FolderResult] and never stops the others.
package pipeline
