// Package distiter contains the core components of distiter, the execution core of a
// distributed data-processing engine. This root package defines the types which are
// employed during the regular use of the framework, as well as in its extension, and is
// an excellent overview of its key concepts:
//
// A DistributedIterator describes a pipeline lazily. Drawing from it produces Tasks, one
// per partition of the underlying data, each of which is a self-contained, gob-encodable
// unit of work. A worker converts a Task into an AsyncTask and drives it with Drive,
// which offers each produced item to a Sink. The Sink is usually a level-A Reducer,
// created fresh for each Task by a Collector. The finished output of every level-A
// Reducer travels back to the coordinator, where a single level-B Reducer folds them
// into the final collection (see Job).
package distiter
