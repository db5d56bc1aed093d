package trampoline

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Error returns the error a trampoline for description fails with.
func Error(description string) *errors.Error {
	return errors.New(errors.PhaseInvoke, errors.KindUnresolved).
		Value(description).
		Detail("%s was not resolved", description).
		Build()
}

// Func returns a function of type F that fails when called.
// F must be a function type.
func Func[F any](description string) F {
	var zero F
	return Make(reflect.TypeOf(&zero).Elem(), description).Interface().(F)
}

// Make returns a function of type fnType that fails when called.
// It panics if fnType is not a function type.
func Make(fnType reflect.Type, description string) reflect.Value {
	if fnType.Kind() != reflect.Func {
		panic("trampoline: " + fnType.String() + " is not a function type")
	}

	numOut := fnType.NumOut()
	returnsError := numOut > 0 && fnType.Out(numOut-1) == errorType

	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		err := Error(description)
		Logger().Error("unresolved symbol called",
			zap.String("symbol", description),
			zap.Int("args", len(args)),
		)
		if !returnsError {
			panic(err)
		}
		out := make([]reflect.Value, numOut)
		for i := 0; i < numOut-1; i++ {
			out[i] = reflect.Zero(fnType.Out(i))
		}
		var e error = err
		out[numOut-1] = reflect.ValueOf(&e).Elem()
		return out
	})
}

// Bind stores a trampoline in the function variable fptr points to.
func Bind(fptr any, description string) error {
	v := reflect.ValueOf(fptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Func {
		return errors.New(errors.PhaseBind, errors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", fptr)).
			Detail("expected a non-nil pointer to a function").
			Build()
	}
	v.Elem().Set(Make(v.Elem().Type(), description))
	return nil
}
