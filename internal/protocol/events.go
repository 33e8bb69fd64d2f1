package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SetupMessage is the initial-sync handshake a client sends right after
// connecting. It is a bare control string, not a tagged event, so the relay
// checks for it before decoding.
const SetupMessage = "setup"

// Type discriminates the wire event shapes.
type Type string

const (
	TypePointer       Type = "pointer"
	TypeElementChange Type = "elementChange"
	TypeUserJoin      Type = "userJoin"
	TypeUserLeave     Type = "userLeave"
	TypeViewChange    Type = "viewChange"
)

// ErrInvalidShape reports an inbound payload that does not match any of the
// five event shapes. Unknown types are rejected, never coerced or ignored,
// so protocol drift surfaces at the boundary.
var ErrInvalidShape = errors.New("invalid event shape")

// Event is the closed union of wire events. The sealed marker keeps the set
// closed at compile time: a new variant must be added here and handled in
// Encode before it can exist.
type Event interface {
	Type() Type
	sealed()
}

// PointerData carries cursor movement for one participant.
type PointerData struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Tool   string  `json:"tool,omitempty"`
	Button string  `json:"button,omitempty"`
}

type PointerEvent struct {
	Data PointerData `json:"data"`
}

func (PointerEvent) Type() Type { return TypePointer }
func (PointerEvent) sealed()    {}

// ElementChangeEvent replaces the whole scene. Data stays an opaque JSON
// array; the relay never looks inside element records.
type ElementChangeEvent struct {
	Data json.RawMessage `json:"data"`
}

func (ElementChangeEvent) Type() Type { return TypeElementChange }
func (ElementChangeEvent) sealed()    {}

type UserData struct {
	UserID string `json:"userId"`
}

type UserJoinEvent struct {
	Data UserData `json:"data"`
}

func (UserJoinEvent) Type() Type { return TypeUserJoin }
func (UserJoinEvent) sealed()    {}

type UserLeaveEvent struct {
	Data UserData `json:"data"`
}

func (UserLeaveEvent) Type() Type { return TypeUserLeave }
func (UserLeaveEvent) sealed()    {}

// ViewData is an ephemeral camera-follow signal. Never persisted.
type ViewData struct {
	UserID  string  `json:"userId"`
	Zoom    float64 `json:"zoom"`
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
}

type ViewChangeEvent struct {
	Data ViewData `json:"data"`
}

func (ViewChangeEvent) Type() Type { return TypeViewChange }
func (ViewChangeEvent) sealed()    {}

// EmptyElements is the scene payload for a room with no stored history.
var EmptyElements = json.RawMessage("[]")

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode validates raw against the closed event set. Anything that is not
// valid JSON, carries an unknown type tag, or is missing required data
// fields is rejected with ErrInvalidShape.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidShape)
	}

	switch Type(env.Type) {
	case TypePointer:
		return decodePointer(env.Data)
	case TypeElementChange:
		return decodeElementChange(env.Data)
	case TypeUserJoin:
		d, err := decodeUserData(env.Data)
		if err != nil {
			return nil, err
		}
		return UserJoinEvent{Data: d}, nil
	case TypeUserLeave:
		d, err := decodeUserData(env.Data)
		if err != nil {
			return nil, err
		}
		return UserLeaveEvent{Data: d}, nil
	case TypeViewChange:
		return decodeViewChange(env.Data)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidShape, env.Type)
	}
}

// Encode is the lossless inverse of Decode.
func Encode(ev Event) ([]byte, error) {
	var data any
	switch e := ev.(type) {
	case PointerEvent:
		data = e.Data
	case ElementChangeEvent:
		if e.Data == nil {
			data = EmptyElements
		} else {
			data = e.Data
		}
	case UserJoinEvent:
		data = e.Data
	case UserLeaveEvent:
		data = e.Data
	case ViewChangeEvent:
		data = e.Data
	default:
		return nil, fmt.Errorf("encode: unsupported event %T", ev)
	}

	return json.Marshal(struct {
		Type Type `json:"type"`
		Data any  `json:"data"`
	}{ev.Type(), data})
}

func decodePointer(data json.RawMessage) (Event, error) {
	var d struct {
		UserID *string  `json:"userId"`
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
		Tool   string   `json:"tool"`
		Button string   `json:"button"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: pointer data: %v", ErrInvalidShape, err)
	}
	if d.UserID == nil || *d.UserID == "" || d.X == nil || d.Y == nil {
		return nil, fmt.Errorf("%w: pointer requires userId, x and y", ErrInvalidShape)
	}
	if d.Button != "" && d.Button != "down" && d.Button != "up" {
		return nil, fmt.Errorf("%w: pointer button %q", ErrInvalidShape, d.Button)
	}
	return PointerEvent{Data: PointerData{
		UserID: *d.UserID,
		X:      *d.X,
		Y:      *d.Y,
		Tool:   d.Tool,
		Button: d.Button,
	}}, nil
}

func decodeElementChange(data json.RawMessage) (Event, error) {
	// Only "is a sequence" is checked; element records pass through opaque.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: elementChange data must be an array", ErrInvalidShape)
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: elementChange data: %v", ErrInvalidShape, err)
	}
	return ElementChangeEvent{Data: json.RawMessage(trimmed)}, nil
}

func decodeUserData(data json.RawMessage) (UserData, error) {
	var d struct {
		UserID *string `json:"userId"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return UserData{}, fmt.Errorf("%w: user data: %v", ErrInvalidShape, err)
	}
	if d.UserID == nil || *d.UserID == "" {
		return UserData{}, fmt.Errorf("%w: missing userId", ErrInvalidShape)
	}
	return UserData{UserID: *d.UserID}, nil
}

func decodeViewChange(data json.RawMessage) (Event, error) {
	var d struct {
		UserID  *string  `json:"userId"`
		Zoom    *float64 `json:"zoom"`
		ScrollX *float64 `json:"scrollX"`
		ScrollY *float64 `json:"scrollY"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: view data: %v", ErrInvalidShape, err)
	}
	if d.UserID == nil || *d.UserID == "" || d.Zoom == nil || d.ScrollX == nil || d.ScrollY == nil {
		return nil, fmt.Errorf("%w: viewChange requires userId, zoom, scrollX and scrollY", ErrInvalidShape)
	}
	return ViewChangeEvent{Data: ViewData{
		UserID:  *d.UserID,
		Zoom:    *d.Zoom,
		ScrollX: *d.ScrollX,
		ScrollY: *d.ScrollY,
	}}, nil
}
