package sortable

import "github.com/1broseidon/sortable/internal/geometry"

// Handle is a host value standing for an item, a container or an activator.
// Handles must be comparable; the engine itself keys everything by ids.ID.
type Handle any

// Host is the rendering, geometry and membership collaborator. The engine
// never touches the presentation directly.
type Host interface {
	// Children returns the current presentation order of a container.
	Children(container Handle) []Handle
	// BoundingRect returns the rect of h without any offset applied by
	// SetOffset.
	BoundingRect(h Handle) geometry.Rect
	// Move places item into container before the sibling before. A nil
	// before appends; before == item leaves the order unchanged.
	Move(item, container, before Handle)
	// SetOffset applies a purely visual translation. The zero point is
	// neutral.
	SetOffset(item Handle, offset geometry.Point)
	// PlaceOverlay shows the dragged representation of item at rect.
	// immediate asks the host to skip any transition.
	PlaceOverlay(item Handle, rect geometry.Rect, immediate bool)
	// ReleaseOverlay sends the overlay to rect and calls settled once any
	// exit visuals have finished.
	ReleaseOverlay(item Handle, rect geometry.Rect, settled func())
	// Focus moves input focus to h.
	Focus(h Handle)
	// Label returns the accessible label of h, or "".
	Label(h Handle) string
	// ScrollableAncestors lists the scroll areas around h, nearest first.
	ScrollableAncestors(h Handle) []ScrollArea
}

// ScrollArea is a scrollable region of the host.
type ScrollArea interface {
	Viewport() geometry.Rect
	ScrollPosition() geometry.Point
	// MaxScroll is the largest reachable scroll position on each axis.
	MaxScroll() geometry.Point
	ScrollBy(delta geometry.Point)
}

// Announcer speaks text to assistive technology. Fire and forget.
type Announcer interface {
	Announce(text string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(text string)

func (f AnnouncerFunc) Announce(text string) { f(text) }

// Scheduler runs a task after the current synchronous phase completes.
type Scheduler interface {
	Defer(task func())
}

// TaskQueue is the default Scheduler. Tasks run in FIFO order when the host
// calls Flush at the end of each input event.
type TaskQueue struct {
	tasks []func()
}

// Defer queues task for the next Flush.
func (q *TaskQueue) Defer(task func()) {
	q.tasks = append(q.tasks, task)
}

// Len reports how many tasks are waiting.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Flush runs queued tasks, including ones queued while flushing.
func (q *TaskQueue) Flush() {
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
	}
}

// Detacher undoes an attach.
type Detacher func()

// StartFunc asks the registry for a session. pointer is nil for inputs
// without a position, such as the keyboard.
type StartFunc func(pointer *geometry.Point) *Session

// Sensor turns an input device into session operations.
type Sensor interface {
	Attach(activator Handle, onStart StartFunc) Detacher
	// Deactivate drops any session bound by this sensor.
	Deactivate()
	Destroy()
}
