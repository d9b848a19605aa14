package driver

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// pumpEvents bridges DevTools events onto the page emitter. It runs
// on its own goroutine for the driver's lifetime and is stopped by
// Close through pumpCtx.
func (d *Driver) pumpEvents() {
	p := d.rod.Context(d.pumpCtx)
	wait := p.EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			d.events.Emit(page.EventConsole, d.newConsoleMessage(e))
		},
		func(e *proto.RuntimeExceptionThrown) {
			d.events.Emit(page.EventPageError, exceptionText(e.ExceptionDetails))
		},
		func(e *proto.PageJavascriptDialogOpening) {
			d.handleDialog(e)
		},
		func(e *proto.PageLoadEventFired) {
			d.events.Emit(page.EventLoad, page.Page(d))
		},
		func(e *proto.PageDomContentEventFired) {
			d.events.Emit(page.EventDOMContentLoaded, page.Page(d))
		},
		func(e *proto.InspectorTargetCrashed) {
			d.events.Emit(page.EventCrash, page.Page(d))
		},
		func(e *proto.PageFrameAttached) {
			d.events.Emit(page.EventFrameAttached, d.frameByID(string(e.FrameID)))
		},
		func(e *proto.PageFrameDetached) {
			d.events.Emit(page.EventFrameDetached, d.frameByID(string(e.FrameID)))
		},
		func(e *proto.PageFrameNavigated) {
			d.events.Emit(page.EventFrameNavigated, &frame{
				d: d, id: string(e.Frame.ID), name: e.Frame.Name, url: e.Frame.URL,
			})
		},
		func(e *proto.PageFileChooserOpened) {
			d.handleFileChooser(e)
		},
		func(e *proto.NetworkRequestWillBeSent) {
			d.onRequestWillBeSent(e)
		},
		func(e *proto.NetworkResponseReceived) {
			d.onResponseReceived(e)
		},
		func(e *proto.NetworkLoadingFinished) {
			d.onLoadingFinished(e)
		},
		func(e *proto.NetworkLoadingFailed) {
			d.onLoadingFailed(e)
		},
		func(e *proto.NetworkWebSocketCreated) {
			d.onWebSocketCreated(e)
		},
		func(e *proto.NetworkWebSocketClosed) {
			d.onWebSocketClosed(e)
		},
		func(e *proto.TargetAttachedToTarget) {
			d.onTargetAttached(e)
		},
	)
	wait()
}

// ---- On/Off registration ----

func (d *Driver) OnClose(handler func(page.Page)) {
	d.events.On(page.EventClose, handler, func(v interface{}) { handler(v.(page.Page)) })
}

func (d *Driver) OffClose(handler func(page.Page)) { d.events.Off(page.EventClose, handler) }

func (d *Driver) OnConsole(handler func(page.ConsoleMessage)) {
	d.events.On(page.EventConsole, handler, func(v interface{}) { handler(v.(page.ConsoleMessage)) })
}

func (d *Driver) OffConsole(handler func(page.ConsoleMessage)) {
	d.events.Off(page.EventConsole, handler)
}

func (d *Driver) OnCrash(handler func(page.Page)) {
	d.events.On(page.EventCrash, handler, func(v interface{}) { handler(v.(page.Page)) })
}

func (d *Driver) OffCrash(handler func(page.Page)) { d.events.Off(page.EventCrash, handler) }

func (d *Driver) OnDialog(handler func(page.Dialog)) {
	d.events.On(page.EventDialog, handler, func(v interface{}) { handler(v.(page.Dialog)) })
}

func (d *Driver) OffDialog(handler func(page.Dialog)) { d.events.Off(page.EventDialog, handler) }

func (d *Driver) OnDOMContentLoaded(handler func(page.Page)) {
	d.events.On(page.EventDOMContentLoaded, handler, func(v interface{}) { handler(v.(page.Page)) })
}

func (d *Driver) OffDOMContentLoaded(handler func(page.Page)) {
	d.events.Off(page.EventDOMContentLoaded, handler)
}

func (d *Driver) OnDownload(handler func(page.Download)) {
	d.events.On(page.EventDownload, handler, func(v interface{}) { handler(v.(page.Download)) })
}

func (d *Driver) OffDownload(handler func(page.Download)) {
	d.events.Off(page.EventDownload, handler)
}

func (d *Driver) OnFileChooser(handler func(page.FileChooser)) {
	d.events.On(page.EventFileChooser, handler, func(v interface{}) { handler(v.(page.FileChooser)) })
	d.enableFileChooserInterception()
}

func (d *Driver) OffFileChooser(handler func(page.FileChooser)) {
	d.events.Off(page.EventFileChooser, handler)
}

func (d *Driver) OnFrameAttached(handler func(page.Frame)) {
	d.events.On(page.EventFrameAttached, handler, func(v interface{}) { handler(v.(page.Frame)) })
}

func (d *Driver) OffFrameAttached(handler func(page.Frame)) {
	d.events.Off(page.EventFrameAttached, handler)
}

func (d *Driver) OnFrameDetached(handler func(page.Frame)) {
	d.events.On(page.EventFrameDetached, handler, func(v interface{}) { handler(v.(page.Frame)) })
}

func (d *Driver) OffFrameDetached(handler func(page.Frame)) {
	d.events.Off(page.EventFrameDetached, handler)
}

func (d *Driver) OnFrameNavigated(handler func(page.Frame)) {
	d.events.On(page.EventFrameNavigated, handler, func(v interface{}) { handler(v.(page.Frame)) })
}

func (d *Driver) OffFrameNavigated(handler func(page.Frame)) {
	d.events.Off(page.EventFrameNavigated, handler)
}

func (d *Driver) OnLoad(handler func(page.Page)) {
	d.events.On(page.EventLoad, handler, func(v interface{}) { handler(v.(page.Page)) })
}

func (d *Driver) OffLoad(handler func(page.Page)) { d.events.Off(page.EventLoad, handler) }

func (d *Driver) OnPageError(handler func(string)) {
	d.events.On(page.EventPageError, handler, func(v interface{}) { handler(v.(string)) })
}

func (d *Driver) OffPageError(handler func(string)) {
	d.events.Off(page.EventPageError, handler)
}

func (d *Driver) OnPopup(handler func(page.Page)) {
	d.events.On(page.EventPopup, handler, func(v interface{}) { handler(v.(page.Page)) })
}

func (d *Driver) OffPopup(handler func(page.Page)) { d.events.Off(page.EventPopup, handler) }

func (d *Driver) OnRequest(handler func(page.Request)) {
	d.events.On(page.EventRequest, handler, func(v interface{}) { handler(v.(page.Request)) })
}

func (d *Driver) OffRequest(handler func(page.Request)) {
	d.events.Off(page.EventRequest, handler)
}

func (d *Driver) OnRequestFailed(handler func(page.Request)) {
	d.events.On(page.EventRequestFailed, handler, func(v interface{}) { handler(v.(page.Request)) })
}

func (d *Driver) OffRequestFailed(handler func(page.Request)) {
	d.events.Off(page.EventRequestFailed, handler)
}

func (d *Driver) OnRequestFinished(handler func(page.Request)) {
	d.events.On(page.EventRequestFinished, handler, func(v interface{}) { handler(v.(page.Request)) })
}

func (d *Driver) OffRequestFinished(handler func(page.Request)) {
	d.events.Off(page.EventRequestFinished, handler)
}

func (d *Driver) OnResponse(handler func(page.Response)) {
	d.events.On(page.EventResponse, handler, func(v interface{}) { handler(v.(page.Response)) })
}

func (d *Driver) OffResponse(handler func(page.Response)) {
	d.events.Off(page.EventResponse, handler)
}

func (d *Driver) OnWebSocket(handler func(page.WebSocket)) {
	d.events.On(page.EventWebSocket, handler, func(v interface{}) { handler(v.(page.WebSocket)) })
}

func (d *Driver) OffWebSocket(handler func(page.WebSocket)) {
	d.events.Off(page.EventWebSocket, handler)
}

func (d *Driver) OnWorker(handler func(page.Worker)) {
	d.events.On(page.EventWorker, handler, func(v interface{}) { handler(v.(page.Worker)) })
}

func (d *Driver) OffWorker(handler func(page.Worker)) {
	d.events.Off(page.EventWorker, handler)
}

// ---- Network bookkeeping ----

// request tracks one network request for the Request/Response
// collaborators.
type request struct {
	d            *Driver
	id           proto.NetworkRequestID
	loaderID     proto.NetworkLoaderID
	url          string
	method       string
	resourceType string
	headers      map[string]string
	postData     string
	isNavigation bool
	failure      string
	resp         *response
}

func (r *request) URL() string { return r.url }
func (r *request) Method() string { return r.method }
func (r *request) ResourceType() string { return r.resourceType }
func (r *request) Headers() map[string]string { return r.headers }
func (r *request) PostData() string { return r.postData }
func (r *request) IsNavigationRequest() bool { return r.isNavigation }

func (r *request) Failure() string {
	r.d.reqMu.Lock()
	defer r.d.reqMu.Unlock()
	return r.failure
}

func (r *request) Response() page.Response {
	r.d.reqMu.Lock()
	defer r.d.reqMu.Unlock()
	if r.resp == nil {
		return nil
	}
	return r.resp
}

func (r *request) Frame() page.Frame { return r.d.MainFrame() }

// response is the driver-side view of a received response.
type response struct {
	d          *Driver
	req        *request
	url        string
	status     int
	statusText string
	headers    map[string]string
	receivedAt time.Time
}

func (r *response) URL() string { return r.url }
func (r *response) Status() int { return r.status }
func (r *response) StatusText() string { return r.statusText }
func (r *response) Headers() map[string]string { return r.headers }
func (r *response) OK() bool { return r.status >= 200 && r.status < 300 }
func (r *response) Request() page.Request { return r.req }

// Body fetches the response body from the browser. It is only
// available until the target navigates away.
func (r *response) Body(ctx context.Context) ([]byte, error) {
	res, err := proto.NetworkGetResponseBody{RequestID: r.req.id}.Call(r.d.rod.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("driver: response body %s: %w", r.url, err)
	}
	if res.Base64Encoded {
		return base64.StdEncoding.DecodeString(res.Body)
	}
	return []byte(res.Body), nil
}

func headerMap(h proto.NetworkHeaders) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v.Str()
	}
	return out
}

func (d *Driver) onRequestWillBeSent(e *proto.NetworkRequestWillBeSent) {
	req := &request{
		d:            d,
		id:           e.RequestID,
		loaderID:     e.LoaderID,
		url:          e.Request.URL,
		method:       e.Request.Method,
		resourceType: string(e.Type),
		headers:      headerMap(e.Request.Headers),
		postData:     e.Request.PostData,
		isNavigation: e.Type == proto.NetworkResourceTypeDocument && string(e.RequestID) == string(e.LoaderID),
	}
	d.reqMu.Lock()
	d.requests[e.RequestID] = req
	d.reqMu.Unlock()
	d.events.Emit(page.EventRequest, page.Request(req))
}

func (d *Driver) onResponseReceived(e *proto.NetworkResponseReceived) {
	d.reqMu.Lock()
	req := d.requests[e.RequestID]
	if req == nil {
		d.reqMu.Unlock()
		return
	}
	resp := &response{
		d:          d,
		req:        req,
		url:        e.Response.URL,
		status:     e.Response.Status,
		statusText: e.Response.StatusText,
		headers:    headerMap(e.Response.Headers),
		receivedAt: time.Now(),
	}
	req.resp = resp
	d.reqMu.Unlock()
	d.events.Emit(page.EventResponse, page.Response(resp))
}

func (d *Driver) onLoadingFinished(e *proto.NetworkLoadingFinished) {
	d.reqMu.Lock()
	req := d.requests[e.RequestID]
	d.reqMu.Unlock()
	if req == nil {
		return
	}
	d.events.Emit(page.EventRequestFinished, page.Request(req))
}

func (d *Driver) onLoadingFailed(e *proto.NetworkLoadingFailed) {
	d.reqMu.Lock()
	req := d.requests[e.RequestID]
	if req != nil {
		req.failure = e.ErrorText
	}
	d.reqMu.Unlock()
	if req == nil {
		return
	}
	d.events.Emit(page.EventRequestFailed, page.Request(req))
}

// ---- WebSockets ----

type webSocket struct {
	d      *Driver
	url    string
	id     proto.NetworkRequestID
	closed bool
}

func (w *webSocket) URL() string { return w.url }

func (w *webSocket) IsClosed() bool {
	w.d.reqMu.Lock()
	defer w.d.reqMu.Unlock()
	return w.closed
}

func (d *Driver) onWebSocketCreated(e *proto.NetworkWebSocketCreated) {
	ws := &webSocket{d: d, url: e.URL, id: e.RequestID}
	d.reqMu.Lock()
	if d.webSockets == nil {
		d.webSockets = make(map[proto.NetworkRequestID]*webSocket)
	}
	d.webSockets[e.RequestID] = ws
	d.reqMu.Unlock()
	d.events.Emit(page.EventWebSocket, page.WebSocket(ws))
}

func (d *Driver) onWebSocketClosed(e *proto.NetworkWebSocketClosed) {
	d.reqMu.Lock()
	if ws := d.webSockets[e.RequestID]; ws != nil {
		ws.closed = true
	}
	d.reqMu.Unlock()
}

// ---- Console ----

type consoleMessage struct {
	typ      string
	text     string
	location string
	args     []page.JSHandle
}

func (m *consoleMessage) Type() string { return m.typ }
func (m *consoleMessage) Text() string { return m.text }
func (m *consoleMessage) Location() string { return m.location }
func (m *consoleMessage) Args() []page.JSHandle { return m.args }

func (d *Driver) newConsoleMessage(e *proto.RuntimeConsoleAPICalled) page.ConsoleMessage {
	msg := &consoleMessage{typ: string(e.Type)}
	for _, arg := range e.Args {
		msg.args = append(msg.args, &jsHandle{d: d, obj: arg})
	}
	parts := make([]string, 0, len(e.Args))
	for _, arg := range e.Args {
		if arg.Value.Nil() && arg.Description != "" {
			parts = append(parts, arg.Description)
			continue
		}
		parts = append(parts, arg.Value.String())
	}
	msg.text = strings.Join(parts, " ")
	if e.StackTrace != nil && len(e.StackTrace.CallFrames) > 0 {
		f := e.StackTrace.CallFrames[0]
		msg.location = fmt.Sprintf("%s:%d:%d", f.URL, f.LineNumber, f.ColumnNumber)
	}
	return msg
}

// exceptionText renders an uncaught remote exception the way the
// console would.
func exceptionText(det *proto.RuntimeExceptionDetails) string {
	if det == nil {
		return "uncaught exception"
	}
	if det.Exception != nil && det.Exception.Description != "" {
		return det.Exception.Description
	}
	return det.Text
}

// ---- Dialogs ----

type dialog struct {
	d       *Driver
	typ     string
	message string
	defval  string
}

func (dl *dialog) Type() string { return dl.typ }
func (dl *dialog) Message() string { return dl.message }
func (dl *dialog) DefaultValue() string { return dl.defval }

func (dl *dialog) Accept(promptText ...string) error {
	text := ""
	if len(promptText) > 0 {
		text = promptText[0]
	}
	err := proto.PageHandleJavaScriptDialog{Accept: true, PromptText: text}.Call(dl.d.rod)
	if err != nil {
		return fmt.Errorf("driver: accept dialog: %w", err)
	}
	return nil
}

func (dl *dialog) Dismiss() error {
	err := proto.PageHandleJavaScriptDialog{Accept: false}.Call(dl.d.rod)
	if err != nil {
		return fmt.Errorf("driver: dismiss dialog: %w", err)
	}
	return nil
}

// handleDialog hands the dialog to listeners. With nobody listening
// or waiting, it is dismissed so the page cannot deadlock.
func (d *Driver) handleDialog(e *proto.PageJavascriptDialogOpening) {
	dl := &dialog{
		d:       d,
		typ:     string(e.Type),
		message: e.Message,
		defval:  e.DefaultPrompt,
	}
	if d.events.ListenerCount(page.EventDialog) == 0 {
		d.events.Emit(page.EventDialog, page.Dialog(dl))
		_ = dl.Dismiss()
		return
	}
	d.events.Emit(page.EventDialog, page.Dialog(dl))
}

// ---- Downloads ----

type download struct {
	d         *Driver
	guid      string
	url       string
	filename  string
	done      chan struct{}
	failed    string
	finalPath string
}

func (dl *download) URL() string { return dl.url }
func (dl *download) SuggestedFilename() string { return dl.filename }

// Path blocks until the download completes and returns the file path.
func (dl *download) Path(ctx context.Context) (string, error) {
	select {
	case <-dl.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	dl.d.dlMu.Lock()
	defer dl.d.dlMu.Unlock()
	if dl.failed != "" {
		return "", fmt.Errorf("driver: download %s: %s", dl.url, dl.failed)
	}
	return dl.finalPath, nil
}

func (dl *download) SaveAs(ctx context.Context, path string) error {
	src, err := dl.Path(ctx)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("driver: save download: %w", err)
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("driver: save download: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("driver: save download: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("driver: save download: %w", err)
	}
	return nil
}

func (dl *download) Delete(ctx context.Context) error {
	src, err := dl.Path(ctx)
	if err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("driver: delete download: %w", err)
	}
	return nil
}

// enableDownloads points browser downloads at the configured directory
// and subscribes to progress events. Requires a browser handle.
func (d *Driver) enableDownloads() error {
	if d.brw == nil {
		return fmt.Errorf("driver: download control needs a browser handle")
	}
	err := proto.BrowserSetDownloadBehavior{
		Behavior:      proto.BrowserSetDownloadBehaviorBehaviorAllowAndName,
		DownloadPath:  d.downloadDir,
		EventsEnabled: true,
	}.Call(d.brw)
	if err != nil {
		return fmt.Errorf("driver: set download behavior: %w", err)
	}
	go d.brw.Context(d.pumpCtx).EachEvent(
		func(e *proto.BrowserDownloadWillBegin) {
			dl := &download{
				d:        d,
				guid:     e.GUID,
				url:      e.URL,
				filename: e.SuggestedFilename,
				done:     make(chan struct{}),
			}
			d.dlMu.Lock()
			d.downloads[e.GUID] = dl
			d.dlMu.Unlock()
			d.events.Emit(page.EventDownload, page.Download(dl))
		},
		func(e *proto.BrowserDownloadProgress) {
			d.dlMu.Lock()
			dl := d.downloads[e.GUID]
			if dl == nil {
				d.dlMu.Unlock()
				return
			}
			switch e.State {
			case proto.BrowserDownloadProgressStateCompleted:
				dl.finalPath = filepath.Join(d.downloadDir, e.GUID)
				d.dlMu.Unlock()
				close(dl.done)
			case proto.BrowserDownloadProgressStateCanceled:
				dl.failed = "canceled"
				d.dlMu.Unlock()
				close(dl.done)
			default:
				d.dlMu.Unlock()
			}
		},
	)()
	return nil
}

// ---- File chooser ----

type fileChooser struct {
	d        *Driver
	el       page.ElementHandle
	multiple bool
}

func (fc *fileChooser) Page() page.Page { return fc.d }

func (fc *fileChooser) Element() page.ElementHandle { return fc.el }

func (fc *fileChooser) IsMultiple() bool { return fc.multiple }

func (fc *fileChooser) SetFiles(ctx context.Context, files []page.FilePayload, opts ...*page.SetInputFilesOptions) error {
	eh, ok := fc.el.(*elementHandle)
	if !ok || eh == nil {
		return fmt.Errorf("driver: file chooser has no element")
	}
	paths, cleanup, err := stagePayloads(files)
	if err != nil {
		return fmt.Errorf("driver: file chooser: %w", err)
	}
	defer cleanup()
	if err := eh.el.Context(ctx).SetFiles(paths); err != nil {
		return fmt.Errorf("driver: file chooser: %w", err)
	}
	return nil
}

// enableFileChooserInterception turns on chooser events once. Without
// it the browser would open a native picker nothing can answer.
func (d *Driver) enableFileChooserInterception() {
	d.chooserOnce.Do(func() {
		err := proto.PageSetInterceptFileChooserDialog{Enabled: true}.Call(d.rod)
		if err != nil {
			d.log.Warn("driver: file chooser interception unavailable", "error", err)
		}
	})
}

func (d *Driver) handleFileChooser(e *proto.PageFileChooserOpened) {
	var el page.ElementHandle
	if e.BackendNodeID != 0 {
		if obj, err := (proto.DOMResolveNode{BackendNodeID: e.BackendNodeID}).Call(d.rod); err == nil {
			if rodEl, err := d.rod.ElementFromObject(obj.Object); err == nil {
				el = &elementHandle{d: d, el: rodEl}
			}
		}
	}
	fc := &fileChooser{d: d, el: el, multiple: e.Mode == proto.PageFileChooserOpenedModeSelectMultiple}
	d.events.Emit(page.EventFileChooser, page.FileChooser(fc))
}
