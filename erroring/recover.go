package erroring

import (
	"fmt"
)

// CallAndRecover calls f and turns a panic with a value of type E into an
// error. Any other panic becomes an error too, after its stack is printed.
func CallAndRecover[E error, T any](f func() T) (result T, retErr error) {
	defer func() {
		var err = recover()
		switch err := err.(type) {
		case nil:
			return
		case E:
			retErr = err
		default:
			retErr = fmt.Errorf("unexpected error of type %T: %v", err, err)
			PrintTrace()
		}
	}()
	result = f()
	return
}
