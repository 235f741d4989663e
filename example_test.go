package bdispatch_test

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/advdv/bdispatch"
	"github.com/cockroachdb/errors"
)

func Example() {
	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewStdLogger(log.New(os.Stderr, "", 0))))

	app.Use(bdispatch.HandlerFunc(func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
		w.Header().Set("X-Powered-By", "bdispatch")
		return nil, nil // continue with the next stage
	}))

	app.Get(app.Named("get-item", "/items/:id"),
		bdispatch.HandlerFunc(func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
			return map[string]string{"id": bdispatch.Param(r, "id"), "name": "Example Item"}, nil
		}))

	// Generate URL by route name
	url, _ := app.Reverse("get-item", "123")
	fmt.Println("URL:", url)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	app.ServeHTTP(rec, req)

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// URL: /items/123
	// Status: 200
	// Body: {"id":"42","name":"Example Item"}
}

func ExampleErrorHandlerFunc() {
	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewStdLogger(log.New(os.Stderr, "", 0))))

	app.Get("/report",
		bdispatch.HandlerFunc(func(bdispatch.ResponseWriter, *http.Request) (any, error) {
			return nil, errors.New("database unavailable")
		}),
		bdispatch.ErrorHandlerFunc(func(w bdispatch.ResponseWriter, _ *http.Request, err error) (any, error) {
			w.SetStatus(http.StatusServiceUnavailable)
			return "try again later: " + err.Error(), nil
		}))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	fmt.Println(rec.Code, rec.Body.String())
	// Output:
	// 503 try again later: database unavailable
}

func ExampleNewError() {
	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewStdLogger(log.New(os.Stderr, "", 0))))

	app.Get("/protected", bdispatch.HandlerFunc(func(_ bdispatch.ResponseWriter, r *http.Request) (any, error) {
		token := r.Header.Get("Authorization")
		if token == "" {
			return nil, bdispatch.NewError(bdispatch.CodeUnauthorized, errors.New("missing token"))
		}
		if token != "Bearer secret" {
			return nil, bdispatch.NewError(bdispatch.CodeForbidden, errors.New("invalid token"))
		}
		return "welcome", nil
	}))

	// Request without token
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	app.ServeHTTP(rec, req)
	fmt.Println("No token:", rec.Code, rec.Body.String())

	// Request with invalid token
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	app.ServeHTTP(rec, req)
	fmt.Println("Bad token:", rec.Code)

	// Request with valid token
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer secret")
	app.ServeHTTP(rec, req)
	fmt.Println("Valid token:", rec.Code, rec.Body.String())

	// Unknown path
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	fmt.Println("Unknown:", rec.Code, rec.Body.String())
	// Output:
	// No token: 401 Unauthorized: missing token
	// Bad token: 403
	// Valid token: 200 welcome
	// Unknown: 404 {"status":404,"message":"The requested resource could not be found!"}
}
