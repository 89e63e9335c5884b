package event

// Pointer and double-click topics emitted by the canvas surface.
const (
	// TopicPointerDown fires when a pointer button is pressed on the canvas.
	TopicPointerDown Topic = "canvas.pointer.down"
	// TopicPointerMove fires while the pointer moves over the canvas.
	TopicPointerMove Topic = "canvas.pointer.move"
	// TopicPointerUp fires when a pointer button is released.
	TopicPointerUp Topic = "canvas.pointer.up"

	// TopicElementDoubleClick fires on a double click over a canvas element.
	TopicElementDoubleClick Topic = "canvas.dblclick.element"
	// TopicSubpathDoubleClick fires on a double click over a subpath.
	TopicSubpathDoubleClick Topic = "canvas.dblclick.subpath"
	// TopicCanvasDoubleClick fires on a double click over empty canvas.
	TopicCanvasDoubleClick Topic = "canvas.dblclick.canvas"
)

// PointerEvent describes a pointer interaction in canvas coordinates.
//
// ToolID is the tool the event is addressed to (the active tool when the
// surface emitted it); listeners bound for other tools ignore the event.
type PointerEvent struct {
	Topic  Topic
	ToolID string

	// Canvas coordinates.
	X, Y float64

	// Hit targets, when known.
	ElementID    string
	SubpathIndex int

	// Modifier state at the time of the event.
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}
