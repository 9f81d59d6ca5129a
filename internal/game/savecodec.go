package game

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	SavePrefix  = "TYCOON-"
	SaveVersion = 1
)

var (
	ErrBadSave         = errors.New("malformed save token")
	ErrUnknownVersion  = errors.New("unsupported save version")
	ErrMissingSaveData = errors.New("save token has no state")
)

type savePayload struct {
	Version   int    `json:"version"`
	Timestamp int64  `json:"timestamp"`
	State     *State `json:"state"`
}

// EncodeSave wraps a state into a portable save token.
func EncodeSave(s *State, timestamp int64) (string, error) {
	raw, err := json.Marshal(savePayload{Version: SaveVersion, Timestamp: timestamp, State: s})
	if err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}
	return SavePrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeSave parses a save token into a fresh state. It never returns a
// partially decoded state.
func DecodeSave(token string) (*State, int64, error) {
	token = strings.TrimSpace(token)
	body, ok := strings.CutPrefix(token, SavePrefix)
	if !ok {
		return nil, 0, ErrBadSave
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	var payload struct {
		Version   *int            `json:"version"`
		Timestamp int64           `json:"timestamp"`
		State     json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	if payload.Version == nil || *payload.Version != SaveVersion {
		return nil, 0, ErrUnknownVersion
	}
	if len(payload.State) == 0 || bytes.Equal(bytes.TrimSpace(payload.State), []byte("null")) {
		return nil, 0, ErrMissingSaveData
	}
	var s State
	if err := json.Unmarshal(payload.State, &s); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadSave, err)
	}
	normalize(&s)
	return &s, payload.Timestamp, nil
}

// ExportSaveData serializes the whole state into a save token.
func (e *Engine) ExportSaveData() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EncodeSave(e.state, e.nowMillis())
}

// LoadSaveData replaces the whole state with the token's contents. Any
// decoding failure leaves the current state untouched and returns false.
func (e *Engine) LoadSaveData(token string) bool {
	s, _, err := DecodeSave(token)
	if err != nil {
		e.log.Warn("load save rejected", "error", err)
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
	e.notify("Save loaded", ToastSuccess)
	return true
}
