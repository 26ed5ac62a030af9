// Package fsutil provides the file and directory copy primitives used to stage
// build output, plus non-colliding output directory selection.
package fsutil
