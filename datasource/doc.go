// Package datasource defines the boundary between distiter and the data it reads.
//
// A File is divided into Partitions, each of which is read by exactly one Task,
// and each Partition into Pages, which are fetched one at a time as the Task
// runs. Failures at any level of this hierarchy are delivered as failed items
// (see errors.SourceError), so that they never stop sibling rows, pages or
// partitions from being read.
package datasource
