package page

import "context"

// Position is a point relative to the top-left corner of an element's
// padding box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewportSize is the page viewport in CSS pixels.
type ViewportSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FilePayload is an in-memory file for SetInputFiles.
type FilePayload struct {
	Name     string
	MimeType string
	Buffer   []byte
}

// Clip is a rectangular region of the page for clipped screenshots.
type Clip struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin is the paper margin for PDF output, in CSS units.
type Margin struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Request is a network request issued by the page. It is a read-only
// view over driver-side state.
type Request interface {
	URL() string
	Method() string
	ResourceType() string
	Headers() map[string]string
	PostData() string
	IsNavigationRequest() bool
	// Failure returns the error text for failed requests, empty
	// otherwise.
	Failure() string
	// Response returns the matching response, or nil if none arrived
	// (yet, or ever for failed requests).
	Response() Response
	Frame() Frame
}

// Response is the network response for a request.
type Response interface {
	URL() string
	Status() int
	StatusText() string
	Headers() map[string]string
	// OK reports whether the status is in the 200-299 range.
	OK() bool
	Body(ctx context.Context) ([]byte, error)
	Request() Request
}

// Route is an intercepted in-flight request that the handler must
// resolve exactly once.
type Route interface {
	Request() Request
	// Continue sends the request on, optionally with overrides.
	Continue(opts ...*ContinueOptions) error
	// Fulfill answers the request without hitting the network.
	Fulfill(opts ...*FulfillOptions) error
	// Abort fails the request. errorCode defaults to "failed".
	Abort(errorCode ...string) error
}

// ConsoleMessage is one console API call from page script.
type ConsoleMessage interface {
	// Type is the console method: log, debug, info, error, warning, ...
	Type() string
	Text() string
	// Location is "url:line:column" of the call site, best effort.
	Location() string
	Args() []JSHandle
}

// Dialog is a JavaScript dialog (alert, confirm, prompt, beforeunload).
// It must be either accepted or dismissed, otherwise the page blocks.
type Dialog interface {
	Type() string
	Message() string
	DefaultValue() string
	Accept(promptText ...string) error
	Dismiss() error
}

// Download is a started file download.
type Download interface {
	URL() string
	SuggestedFilename() string
	// Path blocks until the download completes and returns the file
	// location on the machine running the browser.
	Path(ctx context.Context) (string, error)
	SaveAs(ctx context.Context, path string) error
	Delete(ctx context.Context) error
}

// FileChooser appears when page script asks the user to pick files.
type FileChooser interface {
	Page() Page
	Element() ElementHandle
	IsMultiple() bool
	SetFiles(ctx context.Context, files []FilePayload, opts ...*SetInputFilesOptions) error
}

// Frame is one frame in the page's frame tree.
type Frame interface {
	Name() string
	URL() string
	Page() Page
	ParentFrame() Frame
	ChildFrames() []Frame
	IsDetached() bool
}

// JSHandle references a JavaScript object inside the page. Handles pin
// the remote object; call Dispose when done.
type JSHandle interface {
	// JSONValue serializes the referenced object. Fails for objects
	// that cannot be serialized (functions, DOM nodes with cycles).
	JSONValue(ctx context.Context) (interface{}, error)
	Evaluate(ctx context.Context, expression string, arg interface{}) (interface{}, error)
	// AsElement returns the handle as an ElementHandle, or nil when it
	// does not reference a DOM node.
	AsElement() ElementHandle
	Dispose() error
	String() string
}

// ElementHandle references a DOM element inside the page.
type ElementHandle interface {
	JSHandle

	TextContent(ctx context.Context) (string, error)
	InnerText(ctx context.Context) (string, error)
	InnerHTML(ctx context.Context) (string, error)
	GetAttribute(ctx context.Context, name string) (string, error)
	IsVisible(ctx context.Context) (bool, error)
	Click(ctx context.Context, opts ...*ClickOptions) error
	Fill(ctx context.Context, value string, opts ...*FillOptions) error
	Hover(ctx context.Context, opts ...*HoverOptions) error
	Focus(ctx context.Context) error
	ScrollIntoViewIfNeeded(ctx context.Context) error
	// QuerySelector searches inside this element's subtree.
	QuerySelector(ctx context.Context, selector string) (ElementHandle, error)
	QuerySelectorAll(ctx context.Context, selector string) ([]ElementHandle, error)
}

// Worker is a dedicated WebWorker spawned by the page.
type Worker interface {
	URL() string
}

// WebSocket is a websocket opened by page script.
type WebSocket interface {
	URL() string
	IsClosed() bool
}

// Video is the screen recording of a page, when the driver records one.
type Video interface {
	Path(ctx context.Context) (string, error)
}

// Keyboard is the page's virtual keyboard.
type Keyboard interface {
	// Down holds a key until Up. Repeated Down does not auto-repeat.
	Down(ctx context.Context, key string) error
	Up(ctx context.Context, key string) error
	// Press is Down followed by Up.
	Press(ctx context.Context, key string, opts ...*KeyboardPressOptions) error
	// Type sends a keystroke per character.
	Type(ctx context.Context, text string, opts ...*KeyboardTypeOptions) error
	// InsertText dispatches only an input event, without key events.
	InsertText(ctx context.Context, text string) error
}

// Mouse is the page's virtual pointer, positioned in viewport
// coordinates.
type Mouse interface {
	Move(ctx context.Context, x, y float64, opts ...*MouseMoveOptions) error
	Down(ctx context.Context, opts ...*MouseDownOptions) error
	Up(ctx context.Context, opts ...*MouseUpOptions) error
	Click(ctx context.Context, x, y float64, opts ...*MouseClickOptions) error
	DblClick(ctx context.Context, x, y float64, opts ...*MouseDblClickOptions) error
}

// Touchscreen dispatches touch events.
type Touchscreen interface {
	Tap(ctx context.Context, x, y float64) error
}

// Accessibility reads the page accessibility tree.
type Accessibility interface {
	// Snapshot captures the current accessibility tree as a generic
	// node structure.
	Snapshot(ctx context.Context) (interface{}, error)
}
