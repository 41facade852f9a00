package mywr

import sym "github.com/themusaigen/mywr/internal/objSymbols"

// ResolveFileSymbols reads the COFF symbol table from a PE file on
// disk (an .exe/.dll module before or independent of it being loaded),
// returning a name-to-RVA map. Add an RVA to a module's base address
// (from GetModuleHandle) to get a hookable Address. Symbol-name
// resolution is a convenience layered on top of the (module, offset)
// addressing spec.md §6 already supports directly — most release
// binaries strip this table, so Scan's pattern search remains the
// primary way to locate a target without a known offset.
func ResolveFileSymbols(path string) (map[string]uintptr, error) {
	return sym.ReadSymbols(path)
}
