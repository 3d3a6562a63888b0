// Package display renders the banner and the end-of-run summary table.
package display
