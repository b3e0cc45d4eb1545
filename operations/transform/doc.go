// Package transform provides the combinators from which pipelines are built.
//
// Element-wise combinators (Update, Map, Filter, Inspect) wrap the Tasks of an
// inner DistributedIterator, and layer their effect around whichever Sink the
// Task is eventually run against. FlatMap and Pipe expand each element into
// further items, possibly suspending while they do so. The Multi variants
// build MultiIterators, which are driven by externally supplied source values.
//
// Every function a combinator applies is a distiter.Func, resolved once a
// Task is converted into an AsyncTask, so that Tasks may be run on a worker.
package transform
