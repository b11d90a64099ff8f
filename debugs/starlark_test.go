package debugs

import (
	"errors"
	"testing"

	"go.starlark.net/starlark"
)

type testKind uint8

func (k testKind) String() string {
	return "keyword_open"
}

type testMismatch struct {
	Line     int
	Expected int
	actual   int
}

func dict(pairs ...any) *starlark.Dict {
	d := starlark.NewDict(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		d.SetKey(pairs[i].(starlark.Value), pairs[i+1].(starlark.Value))
	}
	return d
}

func TestToStarlarkValue(t *testing.T) {
	mismatch := &testMismatch{
		Line:     3,
		Expected: 4,
		actual:   1,
	}
	mismatchDict := dict(
		starlark.String("Line"), starlark.MakeInt(3),
		starlark.String("Expected"), starlark.MakeInt(4),
	)

	testCases := []struct {
		name     string
		input    any
		expected starlark.Value
	}{
		{"nil", nil, starlark.None},
		{"bool", true, starlark.True},
		{"bytes", []byte("end"), starlark.Bytes("end")},
		{"string", "do", starlark.String("do")},
		{"int", 42, starlark.MakeInt(42)},
		{"int8", int8(-2), starlark.MakeInt(-2)},
		{"uint64", uint64(42), starlark.MakeUint64(42)},
		{"float64", 0.5, starlark.Float(0.5)},
		{"error", errors.New("unterminated do block"), starlark.String("unterminated do block")},
		{"stringer", testKind(1), starlark.String("keyword_open")},
		{"starlark value", starlark.MakeInt(3), starlark.MakeInt(3)},
		{"[]int", []int{0, 2, 4}, starlark.NewList([]starlark.Value{
			starlark.MakeInt(0), starlark.MakeInt(2), starlark.MakeInt(4),
		})},
		{"map", map[string]bool{"passed": true}, dict(
			starlark.String("passed"), starlark.True,
		)},
		{"struct", *mismatch, mismatchDict},
		{"pointer", mismatch, mismatchDict},
		{"pointer to pointer", &mismatch, mismatchDict},
		{"nested", map[string]any{
			"mismatches": []*testMismatch{mismatch},
		}, dict(
			starlark.String("mismatches"), starlark.NewList([]starlark.Value{mismatchDict}),
		)},
		{"nil pointer", (*testMismatch)(nil), starlark.None},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := toStarlarkValue(tc.input)
			equal, err := starlark.Equal(actual, tc.expected)
			if err != nil {
				t.Fatalf("comparison failed: %v", err)
			}
			if !equal {
				t.Fatalf("got %v, want %v", actual, tc.expected)
			}
		})
	}

	t.Run("func", func(t *testing.T) {
		value := toStarlarkValue(func(s string) int {
			return len(s)
		})
		if _, ok := value.(starlark.Callable); !ok {
			t.Fatalf("got %T", value)
		}
	})

	t.Run("panic on unsupported type", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("should panic")
			}
		}()
		toStarlarkValue(make(chan bool))
	})
}
