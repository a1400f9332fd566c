package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores the dashboard's last inputs so a relaunch can pre-fill its prompts.
//
// It is best effort: callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	LastDiscoveryType string `json:"lastDiscoveryType,omitempty"`
	LastBarNumber     string `json:"lastBarNumber,omitempty"`

	// RecentCaseIDs are case ids selected from the dashboard, newest first.
	RecentCaseIDs []string `json:"recentCaseIds,omitempty"`
}

const maxRecentCaseIDs = 10

// TouchCase moves id to the front of RecentCaseIDs.
func (st *TUIState) TouchCase(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	out := []string{id}
	for _, x := range st.RecentCaseIDs {
		if x != id {
			out = append(out, x)
		}
	}
	if len(out) > maxRecentCaseIDs {
		out = out[:maxRecentCaseIDs]
	}
	st.RecentCaseIDs = out
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.tuiStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
