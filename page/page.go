// Package page declares the driver-neutral surface of a browser tab
// handle: the operations a consumer can invoke, the option bags they
// accept, and the events they can subscribe to.
//
// The package contains no protocol logic. Every operation is a contract
// delegated to a driver (see the driver package for the rod-backed one);
// actionability checks, retries, and the wire transport are the driver's
// problem. What this package fixes is the shape: inputs, option fields,
// return and failure semantics.
package page

import (
	"context"
	"time"
)

// Page is a handle to a single browser tab. It is a capability reference
// to driver-side state; the handle itself holds no DOM.
//
// A Page is owned by one logical caller. Event handlers run on the
// driver's dispatch goroutine and must not block.
//
// URL matcher arguments (Route, Unroute, FrameByURL, WaitForRequest,
// WaitForResponse) accept an exact string, a *regexp.Regexp, or a
// predicate func(string) bool.
type Page interface {
	// ---- Lifecycle ----

	// Close closes the tab. Closing an already-closed page is a no-op.
	Close(ctx context.Context, opts ...*CloseOptions) error
	// IsClosed reports whether the tab has been closed.
	IsClosed() bool
	// Opener returns the page that opened this popup, or nil.
	Opener() Page
	// BringToFront activates the tab.
	BringToFront(ctx context.Context) error
	// Pause blocks until the page closes or ctx is done. With a headful
	// browser the tab stays interactive while paused.
	Pause(ctx context.Context) error

	// ---- Navigation ----

	// Navigate loads the URL and waits for the configured wait-until
	// milestone. The returned Response is the terminal network response,
	// or nil when no network round-trip occurred (same-document
	// navigation, about:blank).
	Navigate(ctx context.Context, url string, opts ...*NavigateOptions) (Response, error)
	Reload(ctx context.Context, opts ...*ReloadOptions) (Response, error)
	GoBack(ctx context.Context, opts ...*GoBackOptions) (Response, error)
	GoForward(ctx context.Context, opts ...*GoForwardOptions) (Response, error)
	// WaitForLoadState blocks until the page reaches the given load
	// state. Returns immediately when the state was already reached.
	WaitForLoadState(ctx context.Context, state LoadState, opts ...*WaitForLoadStateOptions) error
	// WaitForNavigation runs callback and blocks until the navigation it
	// triggers completes, or the timeout elapses.
	WaitForNavigation(ctx context.Context, callback func() error, opts ...*WaitForNavigationOptions) (Response, error)
	SetContent(ctx context.Context, html string, opts ...*SetContentOptions) error
	Content(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	URL() string

	// ---- Actions ----
	//
	// Every action resolves the selector, runs the driver's actionability
	// checks unless Force is set, performs the action, and waits for any
	// triggered navigation to settle unless NoWaitAfter is set. A nil
	// timeout means the page default; 0 disables the timeout.

	Click(ctx context.Context, selector string, opts ...*ClickOptions) error
	DblClick(ctx context.Context, selector string, opts ...*DblClickOptions) error
	Check(ctx context.Context, selector string, opts ...*CheckOptions) error
	Uncheck(ctx context.Context, selector string, opts ...*UncheckOptions) error
	Fill(ctx context.Context, selector, value string, opts ...*FillOptions) error
	Hover(ctx context.Context, selector string, opts ...*HoverOptions) error
	Tap(ctx context.Context, selector string, opts ...*TapOptions) error
	Press(ctx context.Context, selector, key string, opts ...*PressOptions) error
	Type(ctx context.Context, selector, text string, opts ...*TypeOptions) error
	Focus(ctx context.Context, selector string, opts ...*FocusOptions) error
	DispatchEvent(ctx context.Context, selector, typ string, eventInit interface{}, opts ...*DispatchEventOptions) error
	// SelectOption selects the <option> elements whose value matches one
	// of values and returns the values actually selected. A nil values
	// slice is normalized to an empty selection (deselect all).
	SelectOption(ctx context.Context, selector string, values []string, opts ...*SelectOptionOptions) ([]string, error)
	SetInputFiles(ctx context.Context, selector string, files []FilePayload, opts ...*SetInputFilesOptions) error

	// ---- Queries ----
	//
	// Presence-requiring queries (InnerHTML, InnerText, TextContent,
	// GetAttribute) wait for the selector and fail with *TimeoutError
	// when it never resolves. State predicates (IsChecked through
	// IsVisible) answer immediately; a missing element is a defined
	// negative answer, not an error.

	// QuerySelector returns the first matching element, or nil when the
	// selector matches nothing.
	QuerySelector(ctx context.Context, selector string) (ElementHandle, error)
	QuerySelectorAll(ctx context.Context, selector string) ([]ElementHandle, error)
	InnerHTML(ctx context.Context, selector string, opts ...*InnerHTMLOptions) (string, error)
	InnerText(ctx context.Context, selector string, opts ...*InnerTextOptions) (string, error)
	TextContent(ctx context.Context, selector string, opts ...*TextContentOptions) (string, error)
	GetAttribute(ctx context.Context, selector, name string, opts ...*GetAttributeOptions) (string, error)
	IsChecked(ctx context.Context, selector string, opts ...*IsCheckedOptions) (bool, error)
	IsDisabled(ctx context.Context, selector string, opts ...*IsDisabledOptions) (bool, error)
	IsEditable(ctx context.Context, selector string, opts ...*IsEditableOptions) (bool, error)
	IsEnabled(ctx context.Context, selector string, opts ...*IsEnabledOptions) (bool, error)
	IsHidden(ctx context.Context, selector string, opts ...*IsHiddenOptions) (bool, error)
	IsVisible(ctx context.Context, selector string, opts ...*IsVisibleOptions) (bool, error)

	// ---- Evaluation ----
	//
	// A throwing remote expression propagates as an error carrying the
	// remote exception's description.

	Evaluate(ctx context.Context, expression string, arg interface{}) (interface{}, error)
	EvaluateHandle(ctx context.Context, expression string, arg interface{}) (JSHandle, error)
	EvalOnSelector(ctx context.Context, selector, expression string, arg interface{}) (interface{}, error)
	EvalOnSelectorAll(ctx context.Context, selector, expression string, arg interface{}) (interface{}, error)

	// ---- Network interception ----

	// Route registers a handler for requests whose URL matches. When
	// several registered routes match a request, the most recently
	// registered one wins. Enabling interception disables the browser
	// HTTP cache.
	Route(url interface{}, handler RouteHandler) error
	// Unroute removes routes matching url. With handlers given, only
	// those exact handlers (by identity) are removed.
	Unroute(url interface{}, handler ...RouteHandler) error

	// ---- Events ----
	//
	// Multicast: all registered handlers for a kind receive the event in
	// registration order (FIFO within a kind; no ordering guarantee
	// across kinds). OffX removes a previously added handler by
	// identity; removing an unknown handler is a no-op.

	OnClose(handler func(Page))
	OffClose(handler func(Page))
	OnConsole(handler func(ConsoleMessage))
	OffConsole(handler func(ConsoleMessage))
	OnCrash(handler func(Page))
	OffCrash(handler func(Page))
	OnDialog(handler func(Dialog))
	OffDialog(handler func(Dialog))
	OnDOMContentLoaded(handler func(Page))
	OffDOMContentLoaded(handler func(Page))
	OnDownload(handler func(Download))
	OffDownload(handler func(Download))
	OnFileChooser(handler func(FileChooser))
	OffFileChooser(handler func(FileChooser))
	OnFrameAttached(handler func(Frame))
	OffFrameAttached(handler func(Frame))
	OnFrameDetached(handler func(Frame))
	OffFrameDetached(handler func(Frame))
	OnFrameNavigated(handler func(Frame))
	OffFrameNavigated(handler func(Frame))
	OnLoad(handler func(Page))
	OffLoad(handler func(Page))
	OnPageError(handler func(string))
	OffPageError(handler func(string))
	OnPopup(handler func(Page))
	OffPopup(handler func(Page))
	OnRequest(handler func(Request))
	OffRequest(handler func(Request))
	OnRequestFailed(handler func(Request))
	OffRequestFailed(handler func(Request))
	OnRequestFinished(handler func(Request))
	OffRequestFinished(handler func(Request))
	OnResponse(handler func(Response))
	OffResponse(handler func(Response))
	OnWebSocket(handler func(WebSocket))
	OffWebSocket(handler func(WebSocket))
	OnWorker(handler func(Worker))
	OffWorker(handler func(Worker))

	// ---- Rendezvous waits ----
	//
	// Each WaitForX invokes callback on the calling goroutine, then
	// blocks until the first matching event arrives or the timeout
	// elapses (*TimeoutError). The waiter is armed before callback runs,
	// so events fired synchronously by the callback are not missed.

	WaitForClose(ctx context.Context, callback func() error, opts ...*WaitForCloseOptions) (Page, error)
	WaitForConsoleMessage(ctx context.Context, callback func() error, opts ...*WaitForConsoleMessageOptions) (ConsoleMessage, error)
	WaitForDownload(ctx context.Context, callback func() error, opts ...*WaitForDownloadOptions) (Download, error)
	WaitForFileChooser(ctx context.Context, callback func() error, opts ...*WaitForFileChooserOptions) (FileChooser, error)
	WaitForPopup(ctx context.Context, callback func() error, opts ...*WaitForPopupOptions) (Page, error)
	WaitForRequest(ctx context.Context, urlOrPredicate interface{}, callback func() error, opts ...*WaitForRequestOptions) (Request, error)
	WaitForResponse(ctx context.Context, urlOrPredicate interface{}, callback func() error, opts ...*WaitForResponseOptions) (Response, error)
	// WaitForFunction polls expression until it returns a truthy value.
	WaitForFunction(ctx context.Context, expression string, arg interface{}, opts ...*WaitForFunctionOptions) (JSHandle, error)

	// ---- Capture ----

	Screenshot(ctx context.Context, opts ...*ScreenshotOptions) ([]byte, error)
	Pdf(ctx context.Context, opts ...*PdfOptions) ([]byte, error)

	// ---- Environment ----

	// AddInitScript registers a script evaluated in every new document
	// before any of the page's own scripts run.
	AddInitScript(ctx context.Context, script string) error
	AddScriptTag(ctx context.Context, opts ...*AddScriptTagOptions) (ElementHandle, error)
	AddStyleTag(ctx context.Context, opts ...*AddStyleTagOptions) (ElementHandle, error)
	EmulateMedia(ctx context.Context, opts ...*EmulateMediaOptions) error
	// ExposeBinding installs fn as window[name]; calls receive the
	// originating page/frame in the BindingSource.
	ExposeBinding(name string, fn BindingCallback, opts ...*ExposeBindingOptions) error
	ExposeFunction(name string, fn FunctionCallback) error
	SetViewportSize(ctx context.Context, width, height int) error
	ViewportSize() ViewportSize
	SetExtraHTTPHeaders(ctx context.Context, headers map[string]string) error

	// SetDefaultTimeout changes the default for all timeout-bounded
	// operations. 0 disables timeouts by default.
	SetDefaultTimeout(timeout time.Duration)
	// SetDefaultNavigationTimeout changes the default for navigation
	// operations only; it takes priority over SetDefaultTimeout.
	SetDefaultNavigationTimeout(timeout time.Duration)

	// ---- Structure & input devices ----

	MainFrame() Frame
	Frames() []Frame
	// Frame returns the frame with the given name attribute, or nil.
	Frame(name string) Frame
	// FrameByURL returns the first frame whose URL matches, or nil.
	FrameByURL(url interface{}) Frame
	Workers() []Worker
	Keyboard() Keyboard
	Mouse() Mouse
	Touchscreen() Touchscreen
	Accessibility() Accessibility
	// Video returns the recording of this page, or nil when the driver
	// does not record.
	Video() Video
}

// RouteHandler handles one intercepted request. It must resolve the
// route: Continue, Fulfill, or Abort.
type RouteHandler func(Route)

// BindingSource identifies the caller of an exposed binding.
type BindingSource struct {
	Page  Page
	Frame Frame
}

// BindingCallback is invoked when page script calls an exposed binding.
type BindingCallback func(source BindingSource, args ...interface{}) (interface{}, error)

// FunctionCallback is invoked when page script calls an exposed function.
type FunctionCallback func(args ...interface{}) (interface{}, error)
