package rapptest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/rhttp"
)

// CallHandler invokes a [rhttp.Handler] with a buffered per-request context and returns
// the recorded response together with the handler's result value. It handles the
// boilerplate of wrapping [httptest.ResponseRecorder] in a [rhttp.ResponseBuffer] and
// flushing the buffer afterward. Handler failures panic; use [CallHandlerErr] when the
// failure itself is under test.
func CallHandler(handler rhttp.Handler, req *http.Request) (*httptest.ResponseRecorder, any) {
	rec, value, err := CallHandlerErr(handler, req)
	if err != nil {
		panic("rapptest: handler returned error: " + err.Error())
	}

	return rec, value
}

// CallHandlerErr invokes a [rhttp.Handler] like [CallHandler] but returns the handler's
// failure instead of panicking on it.
func CallHandlerErr(handler rhttp.Handler, req *http.Request) (*httptest.ResponseRecorder, any, error) {
	rec := httptest.NewRecorder()
	resp := rhttp.NewResponseBuffer(rec, -1)
	defer resp.Free()

	value, err := handler(rhttp.NewContext(resp, req))

	if ferr := resp.FlushBuffer(); ferr != nil {
		panic("rapptest: FlushBuffer failed: " + ferr.Error())
	}

	return rec, value, err
}
