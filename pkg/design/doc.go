// Package design defines the data model exchanged between a host and the
// remapping engine.
//
// # Inputs
//
// A host supplies a [Source] (its [Container], a [Layer] tree authored in
// that container's space, an optional [Strategy], and a preview URL), a
// target [Container], and optional [Feedback]. Strategy and feedback both
// carry [Override] lists; feedback always wins for the same layer id.
//
// # Output
//
// The engine answers with a [Payload]: the [TransformedLayer] tree in
// target space plus the scale factor, frame metrics, and passthrough
// fields the host needs for display and generation.
//
// JSON field names are camelCase and match what hosts already exchange.
// Optional override numbers are pointers so an explicit zero survives a
// round trip.
package design
