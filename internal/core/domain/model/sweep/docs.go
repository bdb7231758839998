// Package sweep models the result of one dispatch pass: a Report with
// aggregate counts and one Outcome per examined order.
//
// Both dispatch strategies (inline and delegated to the store) and the
// narrower auto-reject pass produce the same Report shape.
package sweep
