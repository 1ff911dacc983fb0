// Package file provides plain-file storage adapters: the newline-delimited
// source registry and the per-version snapshot artifacts. Both formats are
// deliberately human-readable so operators can inspect or edit them with
// standard tools.
package file
