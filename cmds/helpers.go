package cmds

import "strings"

// Var defines name to set the returned value and name+"." to reset it.
func Var[T any](name string) *T {
	value := new(T)
	Define(name, Func(func(v T) {
		*value = v
	}))
	Define(name+".", Func(func() {
		var zero T
		*value = zero
	}))
	return value
}

// Switch defines name to turn the returned flag on and "!"+name to turn it off.
func Switch(name string) *bool {
	value := new(bool)
	Define(name, Func(func() {
		*value = true
	}))
	Define("!"+name, Func(func() {
		*value = false
	}))
	return value
}

// Collect defines name to append its argument to the returned slice.
func Collect[T any](name string) *[]T {
	values := new([]T)
	Define(name, Func(func(v T) {
		*values = append(*values, v)
	}))
	return values
}

// CollectList is Collect for comma separated lists: `-ext ex,exs`.
func CollectList(name string) *[]string {
	values := new([]string)
	Define(name, Func(func(list string) {
		for _, v := range strings.Split(list, ",") {
			if v = strings.TrimSpace(v); v != "" {
				*values = append(*values, v)
			}
		}
	}))
	return values
}
