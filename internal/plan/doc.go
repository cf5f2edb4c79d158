// Package plan is the decision engine: it compares a sample's properties with
// the configured target and produces a Plan of property changes and typed
// sox directives.
//
// Build is pure and deterministic. Policies run in a fixed order (bit-depth,
// sample-rate, channels, container) and share one Builder. Equal values never
// trigger a change, so planning an already converted file is a no-op.
//
// Args serializes a plan into sox argument syntax; the planner itself never
// deals with strings.
package plan
