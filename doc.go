// Package bdispatch provides an HTTP dispatcher with a single, ordered execution stack.
//
// # Overview
//
// Global stages and routed stages share one stack and run in the order they were
// registered. A global stage registered between two routes runs after the first
// route's stages and before the second's. Every stage returns a result and an
// error instead of calling a "next" function:
//
//   - A nil result means: continue with the next applicable stage
//   - A non-nil result is written as the response body and ends the walk
//   - A non-nil error hands the request to an error handler
//
// A minimal example:
//
//	app := bdispatch.New()
//	app.Use(bdispatch.HandlerFunc(func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
//	    w.Header().Set("X-Powered-By", "bdispatch")
//	    return nil, nil
//	}))
//	app.Get("/items/:id", bdispatch.HandlerFunc(func(w bdispatch.ResponseWriter, r *http.Request) (any, error) {
//	    item, err := db.GetItem(bdispatch.Param(r, "id"))
//	    if err != nil {
//	        return nil, bdispatch.NewError(bdispatch.CodeNotFound, err)
//	    }
//	    return item, nil
//	}))
//
// # Stages and Roles
//
// The role of a stage is decided by its type, never by inspecting the function:
//
//   - [HandlerFunc] runs during the normal walk of the stack
//   - [ErrorHandlerFunc] is skipped during the walk and only runs as a fallback
//
// # Results
//
// A result is only written when the stage didn't already send headers or end the
// response itself. Strings, byte slices, readers, errors and fmt.Stringer values
// are written as is. Anything else is encoded as JSON. The status can be prepared
// with [ResponseWriter.SetStatus] before returning a result.
//
// # Error Handling
//
// When a routed stage fails the first [ErrorHandlerFunc] among the later stages of
// the matched routes takes over. Failures that are not handled that way go to a
// global [ErrorHandlerFunc] registered as the very last stage, if there is one.
// Otherwise, or when the chosen error handler fails as well, the default error
// responder logs the error and responds with status 500 (or the [Code] of an
// [*Error]):
//
//	return nil, bdispatch.NewError(bdispatch.CodeBadRequest, errors.New("invalid input"))
//
// If even the default error responder fails [App.ServeHTTP] aborts the request.
// Panicking stages are treated as failing stages.
//
// # Not Found
//
// The first request (or [App.Start]) seals the stack and installs a not-found
// responder at its end. It responds with a small JSON payload. Registering stages
// after that panics.
//
// # Named Routes and URL Reversing
//
// Routes can be named for URL generation, avoiding hardcoded paths:
//
//	app.GetFunc(app.Named("get-user", "/users/:id"), getUser)
//	url, err := app.Reverse("get-user", "123") // returns "/users/123"
//
// # Serving
//
// [App] implements http.Handler. [App.Start] binds a listener and serves the app
// with optional [Middleware] wrapped around it.
package bdispatch
