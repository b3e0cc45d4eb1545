// Package file provides a datasource.File which reads data from files on disk.
// Each file matching a glob is a Partition, and is assigned to a worker in its
// entirety, so it is favourable if individual files represent roughly
// equal-sized divisions of data. Within a file, Pages are newline-aligned byte
// ranges of roughly PageSize bytes.
package file
