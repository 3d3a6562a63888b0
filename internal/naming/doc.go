// Package naming derives output paths for scene folders and guards against
// two folders claiming the same output file within one run.
package naming
