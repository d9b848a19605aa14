package page

// WaitUntilState is a named point in page-load progress used to decide
// when a navigation is done.
type WaitUntilState string

const (
	// WaitUntilDOMContentLoaded fires when the document has been parsed.
	WaitUntilDOMContentLoaded WaitUntilState = "domcontentloaded"
	// WaitUntilLoad fires when the load event has been dispatched.
	WaitUntilLoad WaitUntilState = "load"
	// WaitUntilNetworkIdle fires when there have been no network
	// connections for at least 500ms.
	WaitUntilNetworkIdle WaitUntilState = "networkidle"
)

// LoadState is a load milestone the page may already have reached.
type LoadState string

const (
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateLoad             LoadState = "load"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

// MouseButton selects the button for pointer actions.
type MouseButton string

const (
	MouseButtonLeft   MouseButton = "left"
	MouseButtonMiddle MouseButton = "middle"
	MouseButtonRight  MouseButton = "right"
)

// KeyboardModifier is a modifier key held during an action.
type KeyboardModifier string

const (
	ModifierAlt     KeyboardModifier = "Alt"
	ModifierControl KeyboardModifier = "Control"
	ModifierMeta    KeyboardModifier = "Meta"
	ModifierShift   KeyboardModifier = "Shift"
)

// Media is a CSS media type to emulate.
type Media string

const (
	MediaScreen Media = "screen"
	MediaPrint  Media = "print"
)

// ColorScheme emulates the prefers-color-scheme media feature.
type ColorScheme string

const (
	ColorSchemeLight        ColorScheme = "light"
	ColorSchemeDark         ColorScheme = "dark"
	ColorSchemeNoPreference ColorScheme = "no-preference"
)

// ScreenshotType is the image format of a screenshot.
type ScreenshotType string

const (
	ScreenshotTypePNG  ScreenshotType = "png"
	ScreenshotTypeJPEG ScreenshotType = "jpeg"
)
