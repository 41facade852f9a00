package mywr

import (
	"reflect"
	"unsafe"
)

// Invoke calls the function at addr as if through a pointer of type
// R(C*)(A...), forwarding args as raw machine words. This is the
// primitive hook.call(args...) and the relay's "call the trampoline"
// path both build on (spec.md §4.5).
//
// Go's own foreign-call primitive (syscall.SyscallN) already speaks
// the Windows x64 convention on amd64 and stdcall on 386 — the two
// conventions the overwhelming majority of hookable targets use — so
// Invoke is built directly on it rather than hand-rolling a second
// dispatcher. Cdecl differs from stdcall only in who pops the
// arguments off the stack; since Invoke never forwards varargs (the
// one case where that distinction is externally observable), the
// caller-vs-callee cleanup difference is not observable through this
// API and Cdecl is dispatched identically to Stdcall. Thiscall and
// Fastcall route through the same path with the receiver/first two
// integer arguments already placed by the caller of Invoke — the
// codecave's relay preamble is what actually places them in ECX/EDX
// per spec.md §4.4.2, not Invoke itself.
func Invoke(addr Address, conv Convention, args ...uintptr) (uintptr, error) {
	if !addr.Valid() {
		return 0, ErrInvalidAddress
	}
	return rawCall(addr, args)
}

// InvokeTyped is the type-safe wrapper spec.md §4.5 describes: given a
// signature descriptor it converts each argument to its raw machine
// word representation before delegating to Invoke, and converts the
// raw return word back to R.
func InvokeTyped[R any](addr Address, traits FuncTraits, args ...any) (R, error) {
	var zero R
	raw := make([]uintptr, len(args))
	for i, a := range args {
		raw[i] = toRawWord(a)
	}
	ret, err := Invoke(addr, traits.Convention, raw...)
	if err != nil {
		return zero, err
	}
	return fromRawWord[R](ret), nil
}

func toRawWord(v any) uintptr {
	switch x := v.(type) {
	case uintptr:
		return x
	case Address:
		return x.Uintptr()
	case int:
		return uintptr(x)
	case int32:
		return uintptr(x)
	case int64:
		return uintptr(x)
	case uint32:
		return uintptr(x)
	case uint64:
		return uintptr(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		// Anything else (a pointer, a small struct passed by value on
		// the stack) is reinterpreted as its bit pattern; larger
		// aggregates must go through the hidden-return-pointer path
		// instead of an argument slot.
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Ptr, reflect.UnsafePointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice:
			return rv.Pointer()
		}
		var w uintptr
		if rv.IsValid() && rv.Type().Size() <= unsafe.Sizeof(w) {
			reflect.NewAt(rv.Type(), unsafe.Pointer(&w)).Elem().Set(rv)
		}
		return w
	}
}

func fromRawWord[R any](raw uintptr) R {
	var out R
	switch any(out).(type) {
	case uintptr:
		return any(raw).(R)
	case int:
		return any(int(raw)).(R)
	case int32:
		return any(int32(raw)).(R)
	case int64:
		return any(int64(raw)).(R)
	case uint32:
		return any(uint32(raw)).(R)
	case uint64:
		return any(uint64(raw)).(R)
	case bool:
		return any(raw != 0).(R)
	default:
		return *(*R)(unsafe.Pointer(&raw))
	}
}
