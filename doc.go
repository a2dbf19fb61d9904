/*
Package dysl is the memory-management substrate for a small dynamic,
stack-based language runtime.

Dysl strives to be a lightweight, embeddable foundation for interpreter
construction. It provides manual lifetime control over a heap of tagged,
variably-sized objects, together with symbol interning. Package structure
is as follows:

■ mem: Package mem decouples the runtime from any specific memory provider.
Embedders either implement a three-operation provider interface or hand in
a single Lua-style resize callback.

■ gc: Package gc implements object tracking and reclamation: an arena of
handle-indexed objects, intrusive circular tracking lists, and a
mark-and-sweep collector with an explicit root set.

■ runtime: Package runtime composes a collector and a symbol table into the
global state of an interpreter instance, and provides interpreter contexts
with a value stack on top of it.

The base package contains data types which are used throughout all the
other packages: type tags, object handles and tagged values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dysl
