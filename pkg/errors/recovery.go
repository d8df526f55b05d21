package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// PanicError は Solve などで回復したパニックを表すエラーです。
// gonum の行列演算は形状違反でパニックするため、分解処理はそれを戻り値のエラーに変換します。
type PanicError struct {
	Op    string
	Value interface{}
	// Stack は回復時点のゴルーチンのスタック
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("goeof: %s: recovered panic: %v", e.Op, e.Value)
}

// Unwrap はパニック値がエラーであればそれを返します。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// MarshalZerologObject はzerologのイベントにパニック情報を追加します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("panic", fmt.Sprint(e.Value)).
		Str("type", "PanicError")
}

func newPanicError(op string, value interface{}) *PanicError {
	return &PanicError{Op: op, Value: value, Stack: string(debug.Stack())}
}

// Recover は defer で使い、パニックを *err に変換します。
// *err が既にエラーを持つ場合はパニック情報でラップします。
//
//	func (e *EOF) solve() (err error) {
//	    defer errors.Recover(&err, "EOF.Solve")
//	    ...
//	}
func Recover(err *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = Wrapf(*err, "recovered panic in %s: %v", op, r)
		return
	}
	*err = newPanicError(op, r)
}

// SafeExecute は fn を実行し、パニックを PanicError として返します。
func SafeExecute(op string, fn func() error) (err error) {
	defer Recover(&err, op)
	return fn()
}
