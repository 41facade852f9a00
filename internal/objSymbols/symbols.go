package symbols

import "os"

// ReadSymbols opens the PE file at name and returns its COFF symbol
// table as a name-to-RVA map.
func ReadSymbols(name string) (map[string]uintptr, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := openPE(r)
	if err != nil {
		return nil, err
	}
	return f.Symbols()
}
