/*
Package bridge hands results from background goroutines to a single render goroutine.

	+--------------+   Start(fn)    +---------------+
	|  render loop | -------------> |   goroutine   |
	|  (one frame) |                | (dialog, http)|
	+------+-------+                +-------+-------+
	       ^                                |
	       |  Poll / Take (non-blocking)    | Send (exactly once)
	       |                                v
	       +---------------------- +-------------+
	                               |   Mailbox   |
	                               +-------------+

🎯 Purpose:
- One Task per operation kind (open dialog, save dialog, tool download)
- At most one goroutine in flight per kind
- The render goroutine never blocks: it polls once per frame and sees
  nothing new until the goroutine has finished

🔄 Task states:

	Idle --Start--> InFlight --Poll--> Completed --Take--> Idle

A Task is owned by the goroutine that calls Start, Poll and Take. Only the
Mailbox is shared with the background goroutine.

🔍 Example:

	open := bridge.NewTask[string]("open-dialog")

	// on click
	open.Start(ctx, func(ctx context.Context) string { return pick(ctx) })

	// every frame
	if path, ok := open.Receive(); ok {
		use(path)
	}
*/
package bridge
