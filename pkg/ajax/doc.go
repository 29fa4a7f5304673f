// Package ajax sends small GET and POST requests and reports the outcome
// through Success, Fail and Complete callbacks.
//
// Synchronous requests run the callbacks before Do returns. Asynchronous
// requests run them on the client's scheduler when one is set:
//
//	c := ajax.NewClient(ajax.WithScheduler(l))
//	err := c.Do(ctx, "/api/items", ajax.Request{
//	    Format:  ajax.JSON,
//	    Success: func(v any) { render(v) },
//	    Fail:    func(r *ajax.Response, status int) { log.Print(status) },
//	})
//
// A non-nil Data always sends a POST: a string is form-encoded and
// url.Values is sent as multipart/form-data.
package ajax
