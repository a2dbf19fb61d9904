/*
Package gc implements object tracking and reclamation for the dysl runtime.

Heap objects live in an arena, indexed by stable handles. Every object
carries intrusive list links (as handle pairs) and belongs to exactly one
tracking list at a time: the collector's generation list, holding objects
eligible for reclamation, or its root list, holding objects pinned by the
embedder. A mark-and-sweep cycle traces from the root list and any
registered root providers, then releases whatever the generation list still
holds unmarked. Objects never move; a handle stays valid until its object
is reclaimed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dysl.gc'.
func tracer() tracing.Trace {
	return tracing.Select("dysl.gc")
}
