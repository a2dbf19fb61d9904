/*
Package mem decouples the dysl runtime from any specific memory provider.

Every block of heap memory the runtime hands out is requested through a
Provider, a three-operation allocate/reallocate/release interface. Embedders
that prefer the classic single-callback contract (known from Lua's lua_Alloc)
can wrap a ResizeFn with Provide instead of implementing Provider directly.

The package ships a standard provider over Go-managed blocks, and a counting
provider for accounting and for failure injection in tests.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package mem

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'dysl.mem'.
func tracer() tracing.Trace {
	return tracing.Select("dysl.mem")
}
