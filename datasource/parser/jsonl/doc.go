// Package jsonl decodes JSON Lines data. Struct decodes each line into a Go
// value, while Fields uses https://github.com/tidwall/gjson to extract a fixed
// set of paths from each line, without a schema.
package jsonl
