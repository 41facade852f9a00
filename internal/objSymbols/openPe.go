// Package symbols reads the COFF symbol table out of a PE file on
// disk, giving a caller a name-to-RVA map for resolving a hook target
// by symbol name instead of a raw offset when the module ships debug
// symbols. Debug/release Windows binaries frequently strip this table
// down to nothing, which is why mywr.ResolveFileSymbols is a
// best-effort supplement to Scan and module offsets, never their
// replacement.
package symbols

import (
	"debug/pe"
	"io"
)

type peFile struct {
	pe *pe.File
}

func openPE(r io.ReaderAt) (*peFile, error) {
	f, err := pe.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &peFile{f}, nil
}

func (f *peFile) Symbols() (map[string]uintptr, error) {
	out := make(map[string]uintptr, len(f.pe.Symbols))
	for _, s := range f.pe.Symbols {
		out[s.Name] = uintptr(s.Value)
	}
	return out, nil
}
