// Package display renders the timer window.
package display

import (
	"context"
	"image/color"
	"slices"
	"time"

	"talktimer/internal/core/timekeeper"
	"talktimer/internal/i18n"
	"talktimer/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// MessageKind selects the styling of a transient message.
type MessageKind int

const (
	MessageError MessageKind = iota
	MessageSuccess
	MessageInfo
)

// MessageLifetime is how long a message stays visible.
const MessageLifetime = 5 * time.Second

var (
	normalTimeColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	overtimeTimeColor = color.NRGBA{R: 229, G: 72, B: 77, A: 255}
	pulseTimeColor    = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
)

// Actions defines handlers for the window controls.
type Actions struct {
	OnStart          func()
	OnPause          func()
	OnResume         func()
	OnReset          func()
	OnSkip           func()
	OnChime          func(count int)
	OnSettings       func()
	OnToggleLanguage func()
}

// Window manages the timer UI. Its methods must be called on the fyne
// render goroutine unless stated otherwise.
type Window struct {
	window   fyne.Window
	catalog  *i18n.Catalog
	actions  Actions
	chimes   func(int) int
	snapshot timekeeper.Snapshot

	timeLabel    *canvas.Text
	statusLabel  *widget.Label
	currentLabel *widget.Label
	nextLabel    *widget.Label
	messageLabel *widget.Label
	progressBox  *fyne.Container
	bars         []*widget.ProgressBar
	barLabels    []*widget.Label
	markers      []time.Duration

	startButton    *widget.Button
	pauseButton    *widget.Button
	resumeButton   *widget.Button
	resetButton    *widget.Button
	skipButton     *widget.Button
	chimeButtons   []*widget.Button
	settingsButton *widget.Button
	languageButton *widget.Button

	pulse        *animation.Engine
	overtime     bool
	highlighted  bool
	messageTimer *time.Timer
	messageSeq   uint64
}

// New creates the timer window. chimes maps a marker index to its strength.
func New(app fyne.App, catalog *i18n.Catalog, chimes func(int) int, actions Actions) *Window {
	window := app.NewWindow("Talk Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	timeLabel := canvas.NewText("00:00", normalTimeColor)
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = 72

	display := &Window{
		window:       window,
		catalog:      catalog,
		actions:      actions,
		chimes:       chimes,
		timeLabel:    timeLabel,
		statusLabel:  widget.NewLabel(""),
		currentLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nextLabel:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		messageLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
		progressBox:  container.NewVBox(),
	}
	display.pulse = animation.New(animation.DefaultConfig(), func(highlighted bool) {
		fyne.Do(func() {
			display.highlighted = highlighted
			display.paintTime()
		})
	})

	display.startButton = widget.NewButton("", func() { display.trigger(ActionStart) })
	display.pauseButton = widget.NewButton("", func() { display.trigger(ActionPause) })
	display.resumeButton = widget.NewButton("", func() { display.trigger(ActionResume) })
	display.resetButton = widget.NewButton("", func() { display.trigger(ActionReset) })
	display.skipButton = widget.NewButton("", func() { display.trigger(ActionSkip) })
	display.startButton.Importance = widget.HighImportance
	for count := 1; count <= 3; count++ {
		display.chimeButtons = append(display.chimeButtons, widget.NewButton("", func() {
			if display.actions.OnChime != nil {
				display.actions.OnChime(count)
			}
		}))
	}
	display.settingsButton = widget.NewButton("", func() {
		if display.actions.OnSettings != nil {
			display.actions.OnSettings()
		}
	})
	display.languageButton = widget.NewButton("", func() {
		if display.actions.OnToggleLanguage != nil {
			display.actions.OnToggleLanguage()
		}
	})

	header := container.NewHBox(display.statusLabel, layout.NewSpacer(), display.languageButton, display.settingsButton)
	controls := container.NewGridWithColumns(5,
		display.startButton, display.pauseButton, display.resumeButton, display.resetButton, display.skipButton)
	chimeRow := container.NewGridWithColumns(len(display.chimeButtons), toObjects(display.chimeButtons)...)

	content := container.NewVBox(
		header,
		timeLabel,
		display.currentLabel,
		display.nextLabel,
		display.progressBox,
		controls,
		chimeRow,
		display.messageLabel,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(520, 480))
	window.Canvas().SetOnTypedKey(display.handleKey)

	display.Relabel()
	return display
}

// Window exposes the underlying fyne window.
func (display *Window) Window() fyne.Window {
	return display.window
}

// Show displays and focuses the window.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// Render updates every element from snapshot.
func (display *Window) Render(snapshot timekeeper.Snapshot) {
	display.snapshot = snapshot
	display.ensureBars(snapshot.Sections)

	text, overtime := TimeText(snapshot)
	display.timeLabel.Text = text
	display.overtime = overtime
	display.paintTime()

	current, next := MarkerLines(display.catalog, snapshot, display.chimes)
	display.currentLabel.SetText(current)
	display.nextLabel.SetText(next)
	display.statusLabel.SetText(StatusText(display.catalog, snapshot.Status))

	for index, section := range snapshot.Sections {
		display.bars[index].SetValue(section.Progress)
	}
	display.applyControls(Controls(snapshot))
}

// MarkerCrossed flashes the time label once per chime.
func (display *Window) MarkerCrossed(chimes int) {
	display.pulse.Pulse(context.Background(), chimes)
}

// ShowMessage displays text for MessageLifetime. An empty text clears the
// area immediately.
func (display *Window) ShowMessage(text string, kind MessageKind) {
	if display.messageTimer != nil {
		display.messageTimer.Stop()
		display.messageTimer = nil
	}
	display.messageSeq++
	seq := display.messageSeq

	display.messageLabel.Importance = messageImportance(kind)
	display.messageLabel.SetText(text)
	if text == "" {
		return
	}
	display.messageTimer = time.AfterFunc(MessageLifetime, func() {
		fyne.Do(func() {
			if display.messageSeq == seq {
				display.messageLabel.SetText("")
			}
		})
	})
}

// Relabel reapplies localized text, e.g. after a language change.
func (display *Window) Relabel() {
	catalog := display.catalog
	display.window.SetTitle("Talk Timer")
	display.startButton.SetText(catalog.T("start"))
	display.pauseButton.SetText(catalog.T("pause"))
	display.resumeButton.SetText(catalog.T("resume"))
	display.resetButton.SetText(catalog.T("reset"))
	display.skipButton.SetText(catalog.T("skip"))
	display.settingsButton.SetText(catalog.T("settings"))
	display.languageButton.SetText(LanguageToggleText(catalog.Language()))
	for index, button := range display.chimeButtons {
		button.SetText(catalog.BellCount(index + 1))
	}
	display.relabelBars()
	display.Render(display.snapshot)
}

// Close stops the pulse and any pending message timer.
func (display *Window) Close() {
	display.pulse.Stop()
	if display.messageTimer != nil {
		display.messageTimer.Stop()
	}
}

func (display *Window) trigger(action Action) {
	var handler func()
	switch action {
	case ActionStart:
		handler = display.actions.OnStart
	case ActionPause:
		handler = display.actions.OnPause
	case ActionResume:
		handler = display.actions.OnResume
	case ActionReset:
		handler = display.actions.OnReset
	case ActionSkip:
		handler = display.actions.OnSkip
	}
	if handler != nil {
		handler()
	}
}

func (display *Window) handleKey(event *fyne.KeyEvent) {
	controls := Controls(display.snapshot)
	switch event.Name {
	case fyne.KeySpace:
		display.trigger(ToggleAction(display.snapshot.Status))
	case fyne.KeyR:
		display.trigger(ActionReset)
	case fyne.KeyRight:
		if controls.Skip {
			display.trigger(ActionSkip)
		}
	}
}

func (display *Window) applyControls(state ControlState) {
	setEnabled(display.startButton, state.Start)
	setEnabled(display.pauseButton, state.Pause)
	setEnabled(display.resumeButton, state.Resume)
	setEnabled(display.resetButton, state.Reset)
	setEnabled(display.skipButton, state.Skip)
}

func (display *Window) ensureBars(sections []timekeeper.SectionProgress) {
	markers := make([]time.Duration, len(sections))
	for index, section := range sections {
		markers[index] = section.Marker
	}
	if slices.Equal(markers, display.markers) {
		return
	}
	display.markers = markers
	if len(display.bars) == len(sections) {
		display.relabelBars()
		return
	}

	display.bars = display.bars[:0]
	display.barLabels = display.barLabels[:0]
	display.progressBox.RemoveAll()
	for range sections {
		bar := widget.NewProgressBar()
		bar.TextFormatter = func() string { return "" }
		label := widget.NewLabel("")
		display.bars = append(display.bars, bar)
		display.barLabels = append(display.barLabels, label)
		display.progressBox.Add(container.NewBorder(nil, nil, label, nil, bar))
	}
	display.relabelBars()
}

func (display *Window) relabelBars() {
	for index, label := range display.barLabels {
		label.SetText(display.catalog.MarkerHeading(display.chimes(index), display.markers[index]))
	}
}

func (display *Window) paintTime() {
	switch {
	case display.highlighted:
		display.timeLabel.Color = pulseTimeColor
	case display.overtime:
		display.timeLabel.Color = overtimeTimeColor
	default:
		display.timeLabel.Color = normalTimeColor
	}
	display.timeLabel.Refresh()
}

func messageImportance(kind MessageKind) widget.Importance {
	switch kind {
	case MessageSuccess:
		return widget.SuccessImportance
	case MessageInfo:
		return widget.MediumImportance
	default:
		return widget.DangerImportance
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func toObjects(buttons []*widget.Button) []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, len(buttons))
	for index, button := range buttons {
		objects[index] = button
	}
	return objects
}
