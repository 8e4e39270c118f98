package core

import "time"

// LoadingKind enumerates the loading indicator states a session can show.
type LoadingKind string

// Loading indicator kinds understood by streaming consumers.
const (
	LoadingThinking   LoadingKind = "thinking"
	LoadingSearching  LoadingKind = "searching"
	LoadingCoding     LoadingKind = "coding"
	LoadingAnalyzing  LoadingKind = "analyzing"
	LoadingGenerating LoadingKind = "generating"
	LoadingGeneral    LoadingKind = "general"
	LoadingImage      LoadingKind = "image"
	LoadingVideo      LoadingKind = "video"
	LoadingMap        LoadingKind = "map"
	LoadingCard       LoadingKind = "card"
)

// ButtonColor enumerates the button color variants.
type ButtonColor string

// Button color variants.
const (
	ButtonPrimary   ButtonColor = "primary"
	ButtonSecondary ButtonColor = "secondary"
	ButtonSuccess   ButtonColor = "success"
	ButtonInfo      ButtonColor = "info"
	ButtonWarning   ButtonColor = "warning"
	ButtonDanger    ButtonColor = "danger"
)

// TokenType distinguishes prompt from completion tokens in usage records.
type TokenType string

// Token types for usage tracking.
const (
	TokenPrompt     TokenType = "prompt"
	TokenCompletion TokenType = "completion"
)

// TraceVisibility controls which audiences see a trace record.
type TraceVisibility string

// Trace visibility levels.
const (
	TraceAll TraceVisibility = "all"
	TraceDev TraceVisibility = "dev"
)

// Frame represents a polymorphic unit delivered by a session to its streaming
// consumer. Concrete frame types implement the unexported isFrame marker
// enabling a closed set.
type Frame interface{ isFrame() }

// TextFrame is an incremental chunk of streamed response text.
type TextFrame struct {
	Text string `json:"text"`
}

func (TextFrame) isFrame() {}

// LoadingFrame toggles a loading indicator of the given kind.
type LoadingFrame struct {
	Kind   LoadingKind `json:"kind"`
	Active bool        `json:"active"`
}

func (LoadingFrame) isFrame() {}

// ButtonFrame attaches a single button. Exactly one of URL (link button) or
// Action (action button) is set. Grouped reports whether the button belongs
// to an open button group.
type ButtonFrame struct {
	Label   string      `json:"label"`
	URL     string      `json:"url,omitempty"`
	Action  string      `json:"action,omitempty"`
	Color   ButtonColor `json:"color,omitempty"`
	Grouped bool        `json:"grouped,omitempty"`
}

func (ButtonFrame) isFrame() {}

// ButtonGroupFrame opens or closes a button group. DefaultColor applies to
// group members without an explicit color.
type ButtonGroupFrame struct {
	Open         bool        `json:"open"`
	DefaultColor ButtonColor `json:"default_color,omitempty"`
}

func (ButtonGroupFrame) isFrame() {}

// ImageFrame attaches an image by URL.
type ImageFrame struct {
	URL string `json:"url"`
}

func (ImageFrame) isFrame() {}

// VideoFrame attaches a video by URL. YouTube marks YouTube links so
// consumers can embed a player instead of a plain video element.
type VideoFrame struct {
	URL     string `json:"url"`
	YouTube bool   `json:"youtube,omitempty"`
}

func (VideoFrame) isFrame() {}

// LocationFrame attaches a geographic location, either as the raw string the
// routine supplied or as explicit coordinates.
type LocationFrame struct {
	Raw       string  `json:"raw,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

func (LocationFrame) isFrame() {}

// Card is a single entry of a card list attachment.
type Card struct {
	Photo     string `json:"photo,omitempty"`
	Header    string `json:"header"`
	Subheader string `json:"subheader,omitempty"`
	Text      string `json:"text,omitempty"`
}

// CardListFrame attaches an ordered list of cards.
type CardListFrame struct {
	Cards []Card `json:"cards"`
}

func (CardListFrame) isFrame() {}

// AudioTrack is a single playable track of an audio attachment.
type AudioTrack struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// AudioFrame attaches an ordered list of audio tracks.
type AudioFrame struct {
	Tracks []AudioTrack `json:"tracks"`
}

func (AudioFrame) isFrame() {}

// UsageFrame records token usage and cost for the current response.
type UsageFrame struct {
	Tokens    int       `json:"tokens"`
	TokenType TokenType `json:"token_type"`
	Cost      string    `json:"cost,omitempty"`
	Label     string    `json:"label,omitempty"`
}

func (UsageFrame) isFrame() {}

// TraceFrame carries a debug trace record with an audience restriction.
type TraceFrame struct {
	Message    string          `json:"message"`
	Visibility TraceVisibility `json:"visibility"`
	Timestamp  time.Time       `json:"timestamp"`
}

func (TraceFrame) isFrame() {}

// ErrorFrame reports a failure inline within the streamed response. Detail
// carries the structured payload of a recognized *Error, if available.
type ErrorFrame struct {
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail,omitempty"`
}

func (ErrorFrame) isFrame() {}

// FrameKind returns a stable lowercase name for the concrete frame type,
// used for metrics labels and logging.
func FrameKind(f Frame) string {
	switch f.(type) {
	case TextFrame:
		return "text"
	case LoadingFrame:
		return "loading"
	case ButtonFrame:
		return "button"
	case ButtonGroupFrame:
		return "button_group"
	case ImageFrame:
		return "image"
	case VideoFrame:
		return "video"
	case LocationFrame:
		return "location"
	case CardListFrame:
		return "card_list"
	case AudioFrame:
		return "audio"
	case UsageFrame:
		return "usage"
	case TraceFrame:
		return "trace"
	case ErrorFrame:
		return "error"
	default:
		return "unknown"
	}
}
