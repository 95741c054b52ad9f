// Package gate provides the admission gate that bounds how many fetches
// are in flight at once.
//
// A Gate is a counting semaphore with a fixed capacity. Waiters are served
// in FIFO order, so no waiter starves while permits keep being released.
// Unlike a bare semaphore, a Gate refuses to release a permit nobody holds:
//
//	g, err := gate.New(5)
//	if err != nil {
//	    return err
//	}
//
//	err = g.Do(ctx, func() error {
//	    return fetch(ctx, url)
//	})
//
// Do is the preferred form: the permit is released on every exit path,
// including panics.
package gate
