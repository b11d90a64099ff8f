package configs

import (
	"errors"
	"iter"

	"cuelang.org/go/cue"
)

func First[T any](loader Loader, path string) T {
	value, _ := Lookup[T](loader, path)
	return value
}

// Lookup is First with an explicit found flag, for values whose zero value is meaningful.
func Lookup[T any](loader Loader, path string) (value T, ok bool) {
	if err := loader.AssignFirst(path, &value); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return value, false
		}
		panic(err)
	}
	return value, true
}

// All decodes path from every document that sets it, highest priority first.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(err)
			}
			if !yield(decode[T](value)) {
				return
			}
		}
	}
}

func decode[T any](value *cue.Value) (ret T) {
	if err := value.Decode(&ret); err != nil {
		panic(err)
	}
	return
}
