package mywr

import "reflect"

// funcEntry returns the machine code entry point of a Go function value.
// It only works for genuine (non-closure) functions; reflect.Value.Pointer
// already gives us the code pointer for that case, which is all the hook
// engine's typed constructors (Hook[F]) ever hand it.
func funcEntry(fn interface{}) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return 0
	}
	return v.Pointer()
}
