package cmds

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/reusee/exindent/vars"
)

// Command is a named action. The parameters of Func are bound from the
// arguments following the name; pointer parameters are optional and stay nil
// when absent.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
}

var errorType = reflect.TypeFor[error]()

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

func Func(fn any) *Command {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	t := value.Type()
	if t.NumOut() > 1 || t.NumOut() == 1 && t.Out(0) != errorType {
		panic(fmt.Errorf("must return nothing or error, got %v", t))
	}
	return &Command{
		Func: value,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}

// bind converts leading elements of args to parameters of c.Func and returns
// the remaining args. An optional parameter is not taken from an element that
// names a command in scope, so `check -w` leaves `-w` alone.
func (c *Command) bind(name string, args []string, scope map[string]*Command) ([]reflect.Value, []string, error) {
	t := c.Func.Type()
	values := make([]reflect.Value, 0, t.NumIn())
	for i := range t.NumIn() {
		param := t.In(i)

		if param.Kind() == reflect.Pointer {
			if len(args) == 0 || scope[args[0]] != nil {
				values = append(values, reflect.Zero(param))
				continue
			}
			value, err := parseArg(param.Elem(), args[0])
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			ptr := reflect.New(param.Elem())
			ptr.Elem().Set(value)
			values = append(values, ptr)
			args = args[1:]
			continue
		}

		if len(args) == 0 {
			return nil, nil, fmt.Errorf("%s: expecting argument, got nothing", name)
		}
		value, err := parseArg(param, args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		values = append(values, value)
		args = args[1:]
	}
	return values, args, nil
}

func parseArg(t reflect.Type, str string) (reflect.Value, error) {
	ret := reflect.New(t).Elem()

	switch t.Kind() {

	case reflect.String:
		ret.SetString(str)

	case reflect.Bool:
		v, err := vars.ParseBool(str)
		if err != nil {
			return ret, err
		}
		ret.SetBool(v)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(str, 10, t.Bits())
		if err != nil {
			return ret, fmt.Errorf("convert %s to int: %w", str, err)
		}
		ret.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(str, 10, t.Bits())
		if err != nil {
			return ret, fmt.Errorf("convert %s to unsigned int: %w", str, err)
		}
		ret.SetUint(v)

	default:
		return ret, fmt.Errorf("unsupported type: %v", t)
	}

	return ret, nil
}
