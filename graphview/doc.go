// Package graphview turns backend traversal results into renderable graph
// values and merges successive partial expansions into them.
//
// The pipeline is Fetcher -> Resolver -> Materialize -> Merge. Each stage
// consumes only the output of the previous one; GraphData values are
// immutable, so concurrent expansions never need locks. Callers serialize
// their own "current graph" updates (last applied merge wins).
package graphview
