package display

import (
	"talktimer/internal/core/timekeeper"
	"talktimer/internal/i18n"
)

// Action names a control of the display window.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionPause
	ActionResume
	ActionReset
	ActionSkip
)

// ControlState reports which buttons accept input.
type ControlState struct {
	Start  bool
	Pause  bool
	Resume bool
	Reset  bool
	Skip   bool
}

// Controls derives button enablement from a snapshot.
func Controls(snapshot timekeeper.Snapshot) ControlState {
	state := ControlState{Reset: true}
	switch snapshot.Status {
	case timekeeper.StatusRunning, timekeeper.StatusFinished:
		state.Pause = true
	case timekeeper.StatusPaused:
		state.Resume = true
	default:
		state.Start = true
	}
	state.Skip = snapshot.HasNext() && snapshot.Status != timekeeper.StatusIdle
	return state
}

// ToggleAction is what the space key does in the given state. Overtime
// counts as running, so the key pauses it instead of restarting the talk.
func ToggleAction(status timekeeper.Status) Action {
	switch status {
	case timekeeper.StatusRunning, timekeeper.StatusFinished:
		return ActionPause
	case timekeeper.StatusPaused:
		return ActionResume
	default:
		return ActionStart
	}
}

// TimeText renders the remaining total, or the overrun prefixed with "+".
func TimeText(snapshot timekeeper.Snapshot) (text string, overtime bool) {
	if snapshot.IsOverrun {
		return "+" + i18n.FormatClock(snapshot.Overrun), true
	}
	return i18n.FormatClock(snapshot.RemainingTotal), false
}

// MarkerLines returns the heading for the marker being approached and the
// line announcing the one after it. chimes maps a marker index to its
// strength.
func MarkerLines(catalog *i18n.Catalog, snapshot timekeeper.Snapshot, chimes func(int) int) (current, next string) {
	count := len(snapshot.Sections)
	if count == 0 {
		return "", ""
	}
	if snapshot.IsOverrun {
		return catalog.T("overtime"), ""
	}

	index := snapshot.NextSectionIndex
	if index == timekeeper.NoSection {
		index = count - 1
	}
	current = catalog.MarkerHeading(chimes(index), snapshot.Sections[index].Marker)

	if !snapshot.HasNext() || snapshot.NextSectionIndex+1 >= count {
		return current, ""
	}
	following := snapshot.NextSectionIndex + 1
	return current, catalog.NextMarker(chimes(following), snapshot.Sections[following].Marker)
}

// StatusText renders the localized run state.
func StatusText(catalog *i18n.Catalog, status timekeeper.Status) string {
	var id string
	switch status {
	case timekeeper.StatusRunning:
		id = "statusRunning"
	case timekeeper.StatusPaused:
		id = "statusPaused"
	case timekeeper.StatusFinished:
		id = "statusFinished"
	default:
		id = "statusIdle"
	}
	return catalog.Format("statusLine", map[string]any{"Status": catalog.T(id)})
}

// LanguageToggleText labels the button that switches to the other language.
func LanguageToggleText(lang string) string {
	if lang == i18n.Japanese {
		return "EN"
	}
	return "日本語"
}
