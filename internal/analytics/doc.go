// Package analytics implements the compute kernel of the Insight API:
// experience record validation, domain co-occurrence network
// construction, and Jaccard set similarity.
//
// The three components are independent and stateless over their inputs;
// they share only the entity definitions in the domain package. Every
// operation is synchronous, performs no I/O, and may be called
// concurrently from any number of goroutines without coordination.
//
// Each component has a typed entry point operating on domain values and
// a JSON boundary counterpart operating on raw UTF-8 text, matching the
// contract the surrounding application programs against.
package analytics
