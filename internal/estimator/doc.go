// Package estimator computes rough annual ownership costs for a yacht.
//
// Costs are derived from fixed heuristic ratios applied to the yacht value,
// a per-metre docking rate and a crew cost. Each set of figures is a named
// Schedule; the schedules are independent and are never reconciled with one
// another. Every function in this package is pure: nothing is shared between
// calls and inputs are never validated here (range checks belong to the
// callers collecting the inputs).
package estimator
