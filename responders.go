package bdispatch

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// NotFoundMessage is the message of the built-in not found payload.
const NotFoundMessage = "The requested resource could not be found!"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type statusPayload struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

var notFoundBody = func() []byte {
	b, err := json.Marshal(statusPayload{Status: http.StatusNotFound, Message: NotFoundMessage})
	if err != nil {
		panic("bdispatch: encode not found payload: " + err.Error())
	}

	return b
}()

// NotFound responds with status 404 and a small JSON payload. It is installed at the end of every stack
// when the stack is sealed.
func NotFound(w ResponseWriter, _ *http.Request) (any, error) {
	if w.Finalized() {
		return nil, nil
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	if _, err := w.Write(notFoundBody); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return nil, w.End() //nolint:wrapcheck
}

// DefaultErrorResponder returns the last-resort error responder. It logs the error, sets the status to
// 500 (or the [Code] of an [*Error]) and responds with the error message. It is never part of the stack.
func DefaultErrorResponder(logs Logger) ErrorHandlerFunc {
	return func(w ResponseWriter, _ *http.Request, err error) (any, error) {
		logs.LogHandlerError(err)

		w.SetStatus(StatusOf(err))

		return err.Error(), nil
	}
}
