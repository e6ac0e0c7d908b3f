package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/yoguido/yoguido/internal/diff"
	"github.com/yoguido/yoguido/internal/session"
	"github.com/yoguido/yoguido/internal/ui"
)

// Sentinel errors for inbound decoding.
var (
	ErrInvalidJSON  = errors.New("event envelope is not valid JSON")
	ErrMissingField = errors.New("event envelope missing required field")
)

// Event is one decoded client interaction.
type Event struct {
	Session string
	Node    string
	Event   string
	Payload ui.Payload
}

// ParseEvent decodes an inbound event envelope.
func ParseEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, ErrInvalidJSON
	}

	var ev Event
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"session", &ev.Session},
		{"node", &ev.Node},
		{"event", &ev.Event},
	} {
		r := gjson.GetBytes(data, field.name)
		if !r.Exists() || r.String() == "" {
			return Event{}, fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
		*field.dst = r.String()
	}

	if payload := gjson.GetBytes(data, "payload"); payload.IsObject() {
		if m, ok := payload.Value().(map[string]any); ok {
			ev.Payload = ui.Payload(m)
		}
	}
	return ev, nil
}

// ParseSessionRef decodes a message carrying only a session ID, the body of
// a client-initiated resync request.
func ParseSessionRef(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", ErrInvalidJSON
	}
	r := gjson.GetBytes(data, "session")
	if !r.Exists() || r.String() == "" {
		return "", fmt.Errorf("%w: session", ErrMissingField)
	}
	return r.String(), nil
}

// EncodePatch builds the patch message for a committed render.
func EncodePatch(version uint64, ops []diff.PatchOp, notices []session.Notification) ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "type", "patch")
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, "version", version)
	if err != nil {
		return nil, err
	}

	if ops == nil {
		ops = []diff.PatchOp{}
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshaling ops: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "ops", raw)
	if err != nil {
		return nil, err
	}
	return withNotifications(out, notices)
}

// EncodeResync builds the resync message carrying the full tree.
func EncodeResync(version uint64, title string, tree *ui.Element, notices []session.Notification) ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "type", "resync")
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, "version", version)
	if err != nil {
		return nil, err
	}
	if title != "" {
		if out, err = sjson.SetBytes(out, "title", title); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshaling tree: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "fullTree", raw)
	if err != nil {
		return nil, err
	}
	return withNotifications(out, notices)
}

// EncodeError builds the error message for a failed dispatch. The committed
// tree is unchanged, so the client keeps its DOM.
func EncodeError(version uint64, message string) ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "type", "error")
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetBytes(out, "version", version)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "error", message)
}

// WithSession stamps a session ID onto an encoded message, telling the
// client to adopt a replacement session.
func WithSession(msg []byte, sessionID string) ([]byte, error) {
	return sjson.SetBytes(msg, "session", sessionID)
}

// withNotifications appends queued notifications, if any.
func withNotifications(out []byte, notices []session.Notification) ([]byte, error) {
	if len(notices) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(notices)
	if err != nil {
		return nil, fmt.Errorf("marshaling notifications: %w", err)
	}
	return sjson.SetRawBytes(out, "notifications", raw)
}
