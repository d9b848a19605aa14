package page

import "time"

// Option bags. Every field is optional; the zero value of a bag means
// "all defaults". WithX setters mutate exactly one field and return the
// receiver so calls chain. Omitting the bag from a variadic call is
// identical to passing the zero value.

// CloseOptions configures Page.Close.
type CloseOptions struct {
	// RunBeforeUnload runs the page's beforeunload handlers instead of
	// closing unconditionally.
	RunBeforeUnload *bool
}

func (o *CloseOptions) WithRunBeforeUnload(run bool) *CloseOptions {
	o.RunBeforeUnload = &run
	return o
}

// NavigateOptions configures Page.Navigate.
type NavigateOptions struct {
	// Timeout bounds the whole navigation. nil: page navigation
	// default. 0: no timeout.
	Timeout *time.Duration
	// WaitUntil is the milestone that completes the navigation.
	// Defaults to WaitUntilLoad.
	WaitUntil *WaitUntilState
	// Referer overrides the Referer header for this navigation.
	Referer *string
}

func (o *NavigateOptions) WithTimeout(timeout time.Duration) *NavigateOptions {
	o.Timeout = &timeout
	return o
}

func (o *NavigateOptions) WithWaitUntil(state WaitUntilState) *NavigateOptions {
	o.WaitUntil = &state
	return o
}

func (o *NavigateOptions) WithReferer(referer string) *NavigateOptions {
	o.Referer = &referer
	return o
}

// ReloadOptions configures Page.Reload.
type ReloadOptions struct {
	Timeout   *time.Duration
	WaitUntil *WaitUntilState
}

func (o *ReloadOptions) WithTimeout(timeout time.Duration) *ReloadOptions {
	o.Timeout = &timeout
	return o
}

func (o *ReloadOptions) WithWaitUntil(state WaitUntilState) *ReloadOptions {
	o.WaitUntil = &state
	return o
}

// GoBackOptions configures Page.GoBack.
type GoBackOptions struct {
	Timeout   *time.Duration
	WaitUntil *WaitUntilState
}

func (o *GoBackOptions) WithTimeout(timeout time.Duration) *GoBackOptions {
	o.Timeout = &timeout
	return o
}

func (o *GoBackOptions) WithWaitUntil(state WaitUntilState) *GoBackOptions {
	o.WaitUntil = &state
	return o
}

// GoForwardOptions configures Page.GoForward.
type GoForwardOptions struct {
	Timeout   *time.Duration
	WaitUntil *WaitUntilState
}

func (o *GoForwardOptions) WithTimeout(timeout time.Duration) *GoForwardOptions {
	o.Timeout = &timeout
	return o
}

func (o *GoForwardOptions) WithWaitUntil(state WaitUntilState) *GoForwardOptions {
	o.WaitUntil = &state
	return o
}

// WaitForLoadStateOptions configures Page.WaitForLoadState.
type WaitForLoadStateOptions struct {
	Timeout *time.Duration
}

func (o *WaitForLoadStateOptions) WithTimeout(timeout time.Duration) *WaitForLoadStateOptions {
	o.Timeout = &timeout
	return o
}

// WaitForNavigationOptions configures Page.WaitForNavigation.
type WaitForNavigationOptions struct {
	Timeout   *time.Duration
	WaitUntil *WaitUntilState
	// URL restricts the wait to navigations whose destination matches
	// (exact string, *regexp.Regexp, or func(string) bool).
	URL interface{}
}

func (o *WaitForNavigationOptions) WithTimeout(timeout time.Duration) *WaitForNavigationOptions {
	o.Timeout = &timeout
	return o
}

func (o *WaitForNavigationOptions) WithWaitUntil(state WaitUntilState) *WaitForNavigationOptions {
	o.WaitUntil = &state
	return o
}

func (o *WaitForNavigationOptions) WithURL(url interface{}) *WaitForNavigationOptions {
	o.URL = url
	return o
}

// SetContentOptions configures Page.SetContent.
type SetContentOptions struct {
	Timeout   *time.Duration
	WaitUntil *WaitUntilState
}

func (o *SetContentOptions) WithTimeout(timeout time.Duration) *SetContentOptions {
	o.Timeout = &timeout
	return o
}

func (o *SetContentOptions) WithWaitUntil(state WaitUntilState) *SetContentOptions {
	o.WaitUntil = &state
	return o
}

// ClickOptions configures Page.Click and ElementHandle.Click.
type ClickOptions struct {
	// Button defaults to MouseButtonLeft.
	Button *MouseButton
	// ClickCount defaults to 1.
	ClickCount *int
	// Delay is the time between mousedown and mouseup.
	Delay *time.Duration
	// Force bypasses the driver's actionability checks.
	Force *bool
	// Modifiers are held during the click and restored afterwards.
	Modifiers []KeyboardModifier
	// NoWaitAfter skips waiting for a triggered navigation to settle.
	NoWaitAfter *bool
	// Position is the click point inside the element. Defaults to a
	// visible point of the element.
	Position *Position
	Timeout  *time.Duration
}

func (o *ClickOptions) WithButton(button MouseButton) *ClickOptions {
	o.Button = &button
	return o
}

func (o *ClickOptions) WithClickCount(count int) *ClickOptions {
	o.ClickCount = &count
	return o
}

func (o *ClickOptions) WithDelay(delay time.Duration) *ClickOptions {
	o.Delay = &delay
	return o
}

func (o *ClickOptions) WithForce(force bool) *ClickOptions {
	o.Force = &force
	return o
}

func (o *ClickOptions) WithModifiers(modifiers ...KeyboardModifier) *ClickOptions {
	o.Modifiers = modifiers
	return o
}

func (o *ClickOptions) WithNoWaitAfter(noWaitAfter bool) *ClickOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *ClickOptions) WithPosition(x, y float64) *ClickOptions {
	o.Position = &Position{X: x, Y: y}
	return o
}

func (o *ClickOptions) WithTimeout(timeout time.Duration) *ClickOptions {
	o.Timeout = &timeout
	return o
}

// DblClickOptions configures Page.DblClick.
type DblClickOptions struct {
	Button      *MouseButton
	Delay       *time.Duration
	Force       *bool
	Modifiers   []KeyboardModifier
	NoWaitAfter *bool
	Position    *Position
	Timeout     *time.Duration
}

func (o *DblClickOptions) WithButton(button MouseButton) *DblClickOptions {
	o.Button = &button
	return o
}

func (o *DblClickOptions) WithDelay(delay time.Duration) *DblClickOptions {
	o.Delay = &delay
	return o
}

func (o *DblClickOptions) WithForce(force bool) *DblClickOptions {
	o.Force = &force
	return o
}

func (o *DblClickOptions) WithModifiers(modifiers ...KeyboardModifier) *DblClickOptions {
	o.Modifiers = modifiers
	return o
}

func (o *DblClickOptions) WithNoWaitAfter(noWaitAfter bool) *DblClickOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *DblClickOptions) WithPosition(x, y float64) *DblClickOptions {
	o.Position = &Position{X: x, Y: y}
	return o
}

func (o *DblClickOptions) WithTimeout(timeout time.Duration) *DblClickOptions {
	o.Timeout = &timeout
	return o
}

// CheckOptions configures Page.Check.
type CheckOptions struct {
	Force       *bool
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *CheckOptions) WithForce(force bool) *CheckOptions {
	o.Force = &force
	return o
}

func (o *CheckOptions) WithNoWaitAfter(noWaitAfter bool) *CheckOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *CheckOptions) WithTimeout(timeout time.Duration) *CheckOptions {
	o.Timeout = &timeout
	return o
}

// UncheckOptions configures Page.Uncheck.
type UncheckOptions struct {
	Force       *bool
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *UncheckOptions) WithForce(force bool) *UncheckOptions {
	o.Force = &force
	return o
}

func (o *UncheckOptions) WithNoWaitAfter(noWaitAfter bool) *UncheckOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *UncheckOptions) WithTimeout(timeout time.Duration) *UncheckOptions {
	o.Timeout = &timeout
	return o
}

// FillOptions configures Page.Fill.
type FillOptions struct {
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *FillOptions) WithNoWaitAfter(noWaitAfter bool) *FillOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *FillOptions) WithTimeout(timeout time.Duration) *FillOptions {
	o.Timeout = &timeout
	return o
}

// HoverOptions configures Page.Hover.
type HoverOptions struct {
	Force     *bool
	Modifiers []KeyboardModifier
	Position  *Position
	Timeout   *time.Duration
}

func (o *HoverOptions) WithForce(force bool) *HoverOptions {
	o.Force = &force
	return o
}

func (o *HoverOptions) WithModifiers(modifiers ...KeyboardModifier) *HoverOptions {
	o.Modifiers = modifiers
	return o
}

func (o *HoverOptions) WithPosition(x, y float64) *HoverOptions {
	o.Position = &Position{X: x, Y: y}
	return o
}

func (o *HoverOptions) WithTimeout(timeout time.Duration) *HoverOptions {
	o.Timeout = &timeout
	return o
}

// TapOptions configures Page.Tap.
type TapOptions struct {
	Force       *bool
	Modifiers   []KeyboardModifier
	NoWaitAfter *bool
	Position    *Position
	Timeout     *time.Duration
}

func (o *TapOptions) WithForce(force bool) *TapOptions {
	o.Force = &force
	return o
}

func (o *TapOptions) WithModifiers(modifiers ...KeyboardModifier) *TapOptions {
	o.Modifiers = modifiers
	return o
}

func (o *TapOptions) WithNoWaitAfter(noWaitAfter bool) *TapOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *TapOptions) WithPosition(x, y float64) *TapOptions {
	o.Position = &Position{X: x, Y: y}
	return o
}

func (o *TapOptions) WithTimeout(timeout time.Duration) *TapOptions {
	o.Timeout = &timeout
	return o
}

// PressOptions configures Page.Press.
type PressOptions struct {
	// Delay is the time between keydown and keyup.
	Delay       *time.Duration
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *PressOptions) WithDelay(delay time.Duration) *PressOptions {
	o.Delay = &delay
	return o
}

func (o *PressOptions) WithNoWaitAfter(noWaitAfter bool) *PressOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *PressOptions) WithTimeout(timeout time.Duration) *PressOptions {
	o.Timeout = &timeout
	return o
}

// TypeOptions configures Page.Type.
type TypeOptions struct {
	// Delay is the pause between keystrokes.
	Delay       *time.Duration
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *TypeOptions) WithDelay(delay time.Duration) *TypeOptions {
	o.Delay = &delay
	return o
}

func (o *TypeOptions) WithNoWaitAfter(noWaitAfter bool) *TypeOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *TypeOptions) WithTimeout(timeout time.Duration) *TypeOptions {
	o.Timeout = &timeout
	return o
}

// FocusOptions configures Page.Focus.
type FocusOptions struct {
	Timeout *time.Duration
}

func (o *FocusOptions) WithTimeout(timeout time.Duration) *FocusOptions {
	o.Timeout = &timeout
	return o
}

// DispatchEventOptions configures Page.DispatchEvent.
type DispatchEventOptions struct {
	Timeout *time.Duration
}

func (o *DispatchEventOptions) WithTimeout(timeout time.Duration) *DispatchEventOptions {
	o.Timeout = &timeout
	return o
}

// SelectOptionOptions configures Page.SelectOption.
type SelectOptionOptions struct {
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *SelectOptionOptions) WithNoWaitAfter(noWaitAfter bool) *SelectOptionOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *SelectOptionOptions) WithTimeout(timeout time.Duration) *SelectOptionOptions {
	o.Timeout = &timeout
	return o
}

// SetInputFilesOptions configures Page.SetInputFiles.
type SetInputFilesOptions struct {
	NoWaitAfter *bool
	Timeout     *time.Duration
}

func (o *SetInputFilesOptions) WithNoWaitAfter(noWaitAfter bool) *SetInputFilesOptions {
	o.NoWaitAfter = &noWaitAfter
	return o
}

func (o *SetInputFilesOptions) WithTimeout(timeout time.Duration) *SetInputFilesOptions {
	o.Timeout = &timeout
	return o
}

// InnerHTMLOptions configures Page.InnerHTML.
type InnerHTMLOptions struct {
	Timeout *time.Duration
}

func (o *InnerHTMLOptions) WithTimeout(timeout time.Duration) *InnerHTMLOptions {
	o.Timeout = &timeout
	return o
}

// InnerTextOptions configures Page.InnerText.
type InnerTextOptions struct {
	Timeout *time.Duration
}

func (o *InnerTextOptions) WithTimeout(timeout time.Duration) *InnerTextOptions {
	o.Timeout = &timeout
	return o
}

// TextContentOptions configures Page.TextContent.
type TextContentOptions struct {
	Timeout *time.Duration
}

func (o *TextContentOptions) WithTimeout(timeout time.Duration) *TextContentOptions {
	o.Timeout = &timeout
	return o
}

// GetAttributeOptions configures Page.GetAttribute.
type GetAttributeOptions struct {
	Timeout *time.Duration
}

func (o *GetAttributeOptions) WithTimeout(timeout time.Duration) *GetAttributeOptions {
	o.Timeout = &timeout
	return o
}

// IsCheckedOptions configures Page.IsChecked.
type IsCheckedOptions struct {
	Timeout *time.Duration
}

func (o *IsCheckedOptions) WithTimeout(timeout time.Duration) *IsCheckedOptions {
	o.Timeout = &timeout
	return o
}

// IsDisabledOptions configures Page.IsDisabled.
type IsDisabledOptions struct {
	Timeout *time.Duration
}

func (o *IsDisabledOptions) WithTimeout(timeout time.Duration) *IsDisabledOptions {
	o.Timeout = &timeout
	return o
}

// IsEditableOptions configures Page.IsEditable.
type IsEditableOptions struct {
	Timeout *time.Duration
}

func (o *IsEditableOptions) WithTimeout(timeout time.Duration) *IsEditableOptions {
	o.Timeout = &timeout
	return o
}

// IsEnabledOptions configures Page.IsEnabled.
type IsEnabledOptions struct {
	Timeout *time.Duration
}

func (o *IsEnabledOptions) WithTimeout(timeout time.Duration) *IsEnabledOptions {
	o.Timeout = &timeout
	return o
}

// IsHiddenOptions configures Page.IsHidden.
type IsHiddenOptions struct {
	Timeout *time.Duration
}

func (o *IsHiddenOptions) WithTimeout(timeout time.Duration) *IsHiddenOptions {
	o.Timeout = &timeout
	return o
}

// IsVisibleOptions configures Page.IsVisible.
type IsVisibleOptions struct {
	Timeout *time.Duration
}

func (o *IsVisibleOptions) WithTimeout(timeout time.Duration) *IsVisibleOptions {
	o.Timeout = &timeout
	return o
}

// WaitForCloseOptions configures Page.WaitForClose.
type WaitForCloseOptions struct {
	Timeout *time.Duration
}

func (o *WaitForCloseOptions) WithTimeout(timeout time.Duration) *WaitForCloseOptions {
	o.Timeout = &timeout
	return o
}

// WaitForConsoleMessageOptions configures Page.WaitForConsoleMessage.
type WaitForConsoleMessageOptions struct {
	// Predicate selects the message to wait for; first match wins.
	Predicate func(ConsoleMessage) bool
	Timeout   *time.Duration
}

func (o *WaitForConsoleMessageOptions) WithPredicate(predicate func(ConsoleMessage) bool) *WaitForConsoleMessageOptions {
	o.Predicate = predicate
	return o
}

func (o *WaitForConsoleMessageOptions) WithTimeout(timeout time.Duration) *WaitForConsoleMessageOptions {
	o.Timeout = &timeout
	return o
}

// WaitForDownloadOptions configures Page.WaitForDownload.
type WaitForDownloadOptions struct {
	Predicate func(Download) bool
	Timeout   *time.Duration
}

func (o *WaitForDownloadOptions) WithPredicate(predicate func(Download) bool) *WaitForDownloadOptions {
	o.Predicate = predicate
	return o
}

func (o *WaitForDownloadOptions) WithTimeout(timeout time.Duration) *WaitForDownloadOptions {
	o.Timeout = &timeout
	return o
}

// WaitForFileChooserOptions configures Page.WaitForFileChooser.
type WaitForFileChooserOptions struct {
	Predicate func(FileChooser) bool
	Timeout   *time.Duration
}

func (o *WaitForFileChooserOptions) WithPredicate(predicate func(FileChooser) bool) *WaitForFileChooserOptions {
	o.Predicate = predicate
	return o
}

func (o *WaitForFileChooserOptions) WithTimeout(timeout time.Duration) *WaitForFileChooserOptions {
	o.Timeout = &timeout
	return o
}

// WaitForPopupOptions configures Page.WaitForPopup.
type WaitForPopupOptions struct {
	Predicate func(Page) bool
	Timeout   *time.Duration
}

func (o *WaitForPopupOptions) WithPredicate(predicate func(Page) bool) *WaitForPopupOptions {
	o.Predicate = predicate
	return o
}

func (o *WaitForPopupOptions) WithTimeout(timeout time.Duration) *WaitForPopupOptions {
	o.Timeout = &timeout
	return o
}

// WaitForRequestOptions configures Page.WaitForRequest.
type WaitForRequestOptions struct {
	Timeout *time.Duration
}

func (o *WaitForRequestOptions) WithTimeout(timeout time.Duration) *WaitForRequestOptions {
	o.Timeout = &timeout
	return o
}

// WaitForResponseOptions configures Page.WaitForResponse.
type WaitForResponseOptions struct {
	Timeout *time.Duration
}

func (o *WaitForResponseOptions) WithTimeout(timeout time.Duration) *WaitForResponseOptions {
	o.Timeout = &timeout
	return o
}

// WaitForFunctionOptions configures Page.WaitForFunction.
type WaitForFunctionOptions struct {
	// PollingInterval is the pause between evaluations. Defaults to
	// evaluation on every animation frame.
	PollingInterval *time.Duration
	Timeout         *time.Duration
}

func (o *WaitForFunctionOptions) WithPollingInterval(interval time.Duration) *WaitForFunctionOptions {
	o.PollingInterval = &interval
	return o
}

func (o *WaitForFunctionOptions) WithTimeout(timeout time.Duration) *WaitForFunctionOptions {
	o.Timeout = &timeout
	return o
}

// ScreenshotOptions configures Page.Screenshot.
type ScreenshotOptions struct {
	// Type defaults to ScreenshotTypePNG.
	Type *ScreenshotType
	// Quality applies to JPEG only, 0-100.
	Quality *int
	// FullPage captures the whole scrollable page instead of the
	// viewport.
	FullPage *bool
	// Clip restricts the capture to a region.
	Clip *Clip
	// OmitBackground makes the default white background transparent
	// (PNG only).
	OmitBackground *bool
	// Path, when set, also writes the image to a file.
	Path    *string
	Timeout *time.Duration
}

func (o *ScreenshotOptions) WithType(typ ScreenshotType) *ScreenshotOptions {
	o.Type = &typ
	return o
}

func (o *ScreenshotOptions) WithQuality(quality int) *ScreenshotOptions {
	o.Quality = &quality
	return o
}

func (o *ScreenshotOptions) WithFullPage(fullPage bool) *ScreenshotOptions {
	o.FullPage = &fullPage
	return o
}

func (o *ScreenshotOptions) WithClip(x, y, width, height float64) *ScreenshotOptions {
	o.Clip = &Clip{X: x, Y: y, Width: width, Height: height}
	return o
}

func (o *ScreenshotOptions) WithOmitBackground(omit bool) *ScreenshotOptions {
	o.OmitBackground = &omit
	return o
}

func (o *ScreenshotOptions) WithPath(path string) *ScreenshotOptions {
	o.Path = &path
	return o
}

func (o *ScreenshotOptions) WithTimeout(timeout time.Duration) *ScreenshotOptions {
	o.Timeout = &timeout
	return o
}

// PdfOptions configures Page.Pdf.
type PdfOptions struct {
	Scale               *float64
	DisplayHeaderFooter *bool
	HeaderTemplate      *string
	FooterTemplate      *string
	PrintBackground     *bool
	Landscape           *bool
	// PageRanges like "1-5, 8". Empty means all pages.
	PageRanges *string
	// Format is a paper size name ("A4", "Letter", ...). Takes priority
	// over Width/Height.
	Format *string
	// Width and Height accept CSS unit strings ("8.5in", "210mm").
	Width  *string
	Height *string
	Margin *Margin
	// PreferCSSPageSize gives @page size priority over Format.
	PreferCSSPageSize *bool
	// Path, when set, also writes the document to a file.
	Path *string
}

func (o *PdfOptions) WithScale(scale float64) *PdfOptions {
	o.Scale = &scale
	return o
}

func (o *PdfOptions) WithDisplayHeaderFooter(display bool) *PdfOptions {
	o.DisplayHeaderFooter = &display
	return o
}

func (o *PdfOptions) WithHeaderTemplate(template string) *PdfOptions {
	o.HeaderTemplate = &template
	return o
}

func (o *PdfOptions) WithFooterTemplate(template string) *PdfOptions {
	o.FooterTemplate = &template
	return o
}

func (o *PdfOptions) WithPrintBackground(print bool) *PdfOptions {
	o.PrintBackground = &print
	return o
}

func (o *PdfOptions) WithLandscape(landscape bool) *PdfOptions {
	o.Landscape = &landscape
	return o
}

func (o *PdfOptions) WithPageRanges(ranges string) *PdfOptions {
	o.PageRanges = &ranges
	return o
}

func (o *PdfOptions) WithFormat(format string) *PdfOptions {
	o.Format = &format
	return o
}

func (o *PdfOptions) WithWidth(width string) *PdfOptions {
	o.Width = &width
	return o
}

func (o *PdfOptions) WithHeight(height string) *PdfOptions {
	o.Height = &height
	return o
}

func (o *PdfOptions) WithMargin(margin Margin) *PdfOptions {
	o.Margin = &margin
	return o
}

func (o *PdfOptions) WithPreferCSSPageSize(prefer bool) *PdfOptions {
	o.PreferCSSPageSize = &prefer
	return o
}

func (o *PdfOptions) WithPath(path string) *PdfOptions {
	o.Path = &path
	return o
}

// AddScriptTagOptions configures Page.AddScriptTag. Exactly one of URL,
// Path, or Content should be set.
type AddScriptTagOptions struct {
	URL     *string
	Path    *string
	Content *string
	// Type is the script type attribute; "module" loads an ES module.
	Type *string
}

func (o *AddScriptTagOptions) WithURL(url string) *AddScriptTagOptions {
	o.URL = &url
	return o
}

func (o *AddScriptTagOptions) WithPath(path string) *AddScriptTagOptions {
	o.Path = &path
	return o
}

func (o *AddScriptTagOptions) WithContent(content string) *AddScriptTagOptions {
	o.Content = &content
	return o
}

func (o *AddScriptTagOptions) WithType(typ string) *AddScriptTagOptions {
	o.Type = &typ
	return o
}

// AddStyleTagOptions configures Page.AddStyleTag. Exactly one of URL,
// Path, or Content should be set.
type AddStyleTagOptions struct {
	URL     *string
	Path    *string
	Content *string
}

func (o *AddStyleTagOptions) WithURL(url string) *AddStyleTagOptions {
	o.URL = &url
	return o
}

func (o *AddStyleTagOptions) WithPath(path string) *AddStyleTagOptions {
	o.Path = &path
	return o
}

func (o *AddStyleTagOptions) WithContent(content string) *AddStyleTagOptions {
	o.Content = &content
	return o
}

// EmulateMediaOptions configures Page.EmulateMedia. The empty string
// value of an enum field disables that emulation; a nil field leaves
// the current emulation untouched.
type EmulateMediaOptions struct {
	Media       *Media
	ColorScheme *ColorScheme
}

func (o *EmulateMediaOptions) WithMedia(media Media) *EmulateMediaOptions {
	o.Media = &media
	return o
}

func (o *EmulateMediaOptions) WithColorScheme(scheme ColorScheme) *EmulateMediaOptions {
	o.ColorScheme = &scheme
	return o
}

// ExposeBindingOptions configures Page.ExposeBinding.
type ExposeBindingOptions struct {
	// Handle passes the single argument as a JSHandle instead of by
	// value.
	Handle *bool
}

func (o *ExposeBindingOptions) WithHandle(handle bool) *ExposeBindingOptions {
	o.Handle = &handle
	return o
}

// ContinueOptions overrides parts of a routed request before it is sent
// on.
type ContinueOptions struct {
	URL      *string
	Method   *string
	Headers  map[string]string
	PostData []byte
}

func (o *ContinueOptions) WithURL(url string) *ContinueOptions {
	o.URL = &url
	return o
}

func (o *ContinueOptions) WithMethod(method string) *ContinueOptions {
	o.Method = &method
	return o
}

func (o *ContinueOptions) WithHeaders(headers map[string]string) *ContinueOptions {
	o.Headers = headers
	return o
}

func (o *ContinueOptions) WithPostData(data []byte) *ContinueOptions {
	o.PostData = data
	return o
}

// FulfillOptions answers a routed request without hitting the network.
type FulfillOptions struct {
	// Status defaults to 200.
	Status      *int
	Headers     map[string]string
	ContentType *string
	Body        []byte
}

func (o *FulfillOptions) WithStatus(status int) *FulfillOptions {
	o.Status = &status
	return o
}

func (o *FulfillOptions) WithHeaders(headers map[string]string) *FulfillOptions {
	o.Headers = headers
	return o
}

func (o *FulfillOptions) WithContentType(contentType string) *FulfillOptions {
	o.ContentType = &contentType
	return o
}

func (o *FulfillOptions) WithBody(body []byte) *FulfillOptions {
	o.Body = body
	return o
}

// KeyboardPressOptions configures Keyboard.Press.
type KeyboardPressOptions struct {
	// Delay is the time between keydown and keyup.
	Delay *time.Duration
}

func (o *KeyboardPressOptions) WithDelay(delay time.Duration) *KeyboardPressOptions {
	o.Delay = &delay
	return o
}

// KeyboardTypeOptions configures Keyboard.Type.
type KeyboardTypeOptions struct {
	// Delay is the pause between keystrokes.
	Delay *time.Duration
}

func (o *KeyboardTypeOptions) WithDelay(delay time.Duration) *KeyboardTypeOptions {
	o.Delay = &delay
	return o
}

// MouseMoveOptions configures Mouse.Move.
type MouseMoveOptions struct {
	// Steps splits the move into intermediate mousemove events.
	Steps *int
}

func (o *MouseMoveOptions) WithSteps(steps int) *MouseMoveOptions {
	o.Steps = &steps
	return o
}

// MouseDownOptions configures Mouse.Down.
type MouseDownOptions struct {
	Button     *MouseButton
	ClickCount *int
}

func (o *MouseDownOptions) WithButton(button MouseButton) *MouseDownOptions {
	o.Button = &button
	return o
}

func (o *MouseDownOptions) WithClickCount(count int) *MouseDownOptions {
	o.ClickCount = &count
	return o
}

// MouseUpOptions configures Mouse.Up.
type MouseUpOptions struct {
	Button     *MouseButton
	ClickCount *int
}

func (o *MouseUpOptions) WithButton(button MouseButton) *MouseUpOptions {
	o.Button = &button
	return o
}

func (o *MouseUpOptions) WithClickCount(count int) *MouseUpOptions {
	o.ClickCount = &count
	return o
}

// MouseClickOptions configures Mouse.Click.
type MouseClickOptions struct {
	Button     *MouseButton
	ClickCount *int
	Delay      *time.Duration
}

func (o *MouseClickOptions) WithButton(button MouseButton) *MouseClickOptions {
	o.Button = &button
	return o
}

func (o *MouseClickOptions) WithClickCount(count int) *MouseClickOptions {
	o.ClickCount = &count
	return o
}

func (o *MouseClickOptions) WithDelay(delay time.Duration) *MouseClickOptions {
	o.Delay = &delay
	return o
}

// MouseDblClickOptions configures Mouse.DblClick.
type MouseDblClickOptions struct {
	Button *MouseButton
	Delay  *time.Duration
}

func (o *MouseDblClickOptions) WithButton(button MouseButton) *MouseDblClickOptions {
	o.Button = &button
	return o
}

func (o *MouseDblClickOptions) WithDelay(delay time.Duration) *MouseDblClickOptions {
	o.Delay = &delay
	return o
}
