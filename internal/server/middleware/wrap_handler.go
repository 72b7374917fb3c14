package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/labstack/echo/v4"
)

var (
	contextType = reflect.TypeOf((*echo.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// WrapHandler turns a typed controller method into an echo handler. The
// method has the form func(echo.Context, Req) (Res, error) or
// func(echo.Context, Req) error. Req is bound from path, query and body and
// validated before the call. Res is written as a JSON envelope, a missing
// Res as 204. It panics on any other signature.
func WrapHandler(f interface{}) echo.HandlerFunc {
	handler, err := wrapHandler(f)
	if err != nil {
		panic(err)
	}
	return handler
}

// typedHandler is a controller method whose signature passed checkSignature.
type typedHandler struct {
	fn      reflect.Value
	reqType reflect.Type
	hasData bool
}

func checkSignature(f interface{}) (*typedHandler, error) {
	fn := reflect.ValueOf(f)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("wrap handler: %T is not a function", f)
	}
	typ := fn.Type()
	name := runtime.FuncForPC(fn.Pointer()).Name()

	switch {
	case typ.NumIn() != 2:
		return nil, fmt.Errorf("wrap handler %s: want 2 arguments, got %d", name, typ.NumIn())
	case !typ.In(0).Implements(contextType):
		return nil, fmt.Errorf("wrap handler %s: first argument must be echo.Context", name)
	case typ.In(1).Kind() != reflect.Struct:
		return nil, fmt.Errorf("wrap handler %s: request must be a struct, got %v", name, typ.In(1).Kind())
	case typ.NumOut() < 1 || typ.NumOut() > 2:
		return nil, fmt.Errorf("wrap handler %s: want 1 or 2 results, got %d", name, typ.NumOut())
	case !typ.Out(typ.NumOut() - 1).Implements(errorType):
		return nil, fmt.Errorf("wrap handler %s: last result must be error, got %v", name, typ.Out(typ.NumOut()-1))
	}

	return &typedHandler{fn: fn, reqType: typ.In(1), hasData: typ.NumOut() == 2}, nil
}

func wrapHandler(f interface{}) (echo.HandlerFunc, error) {
	h, err := checkSignature(f)
	if err != nil {
		return nil, err
	}
	return h.serve, nil
}

func (h *typedHandler) serve(c echo.Context) error {
	req := reflect.New(h.reqType)
	if err := BindAndValidate(c, req.Interface()); err != nil {
		return err
	}

	out := h.fn.Call([]reflect.Value{reflect.ValueOf(c), req.Elem()})
	if err, _ := out[len(out)-1].Interface().(error); err != nil {
		return err
	}
	if c.Response().Committed {
		return nil
	}
	if !h.hasData {
		return c.NoContent(http.StatusNoContent)
	}

	data := out[0].Interface()
	resp, ok := data.(*Response)
	if !ok {
		resp = OK(data)
	}
	return c.JSON(resp.Status, resp)
}
