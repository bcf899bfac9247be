// Package remap implements the layout-remapping engine.
//
// Given a layer tree authored inside a source container, remap computes
// where each layer lands inside a differently sized target container. The
// pass has four stages:
//
//  1. Override resolution ([Resolve]): feedback overrides beat strategy
//     overrides, which beat none.
//  2. Geometric mapping ([MapLayers]): every layer is scaled by one
//     uniform "contain" factor, the scaled source is centered in the
//     target, and per-layer overrides are applied.
//  3. Flow layout ([SolveFlow]): unlocked top-level layers are distributed
//     into equal slots and, optionally, swept apart so they do not collide.
//  4. Assembly ([Assemble]): the forest and metrics are packaged into a
//     [design.Payload].
//
// [Remap] runs all four stages and is the single recompute entry point a
// host calls whenever any input changes.
//
// # Scaling
//
// The base scale is min(target.W/source.W, target.H/source.H). A strategy
// suggestedScale multiplies that value. The whole scaled source frame is
// centered in the target, so a layer at the source origin lands at
// target origin plus the centering offset.
//
// # Overrides
//
// An override adds xOffset/yOffset after scaling, multiplies the layer's
// size by individualScale about the layer's own center, and sets the
// rotation (0 when absent). Any layer with a resolved override is locked:
// the flow pass never moves it.
//
// # Versioning
//
// The payload's generationId is the strategy timestamp when one is set,
// otherwise a name-based UUID of the inputs. Recomputing unchanged input
// therefore produces an identical payload.
//
// # Concurrency
//
// Every function in this package is pure and allocates a fresh output
// tree. Independent calls may run in parallel without coordination.
package remap
