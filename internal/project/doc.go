// Package project reads and edits Unreal project descriptors (.uproject files).
//
// The descriptor format is owned by the engine. Only the top-level Plugins list
// and the Name/Enabled fields of its entries are ever touched; every other field
// is preserved verbatim because edits are applied to the raw JSON document with
// tidwall/sjson rather than by round-tripping through Go structs.
package project
