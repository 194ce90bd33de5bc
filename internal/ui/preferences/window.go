package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"talktimer/internal/core/model"
	"talktimer/internal/i18n"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var languageNames = map[string]string{
	i18n.Japanese: "日本語",
	i18n.English:  "English",
}

type markerRow struct {
	minutes *widget.Entry
	seconds *widget.Entry
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	catalog  *i18n.Catalog
	settings Settings
	onSave   func(Settings)

	rowsBox   *fyne.Container
	rows      []markerRow
	addButton *widget.Button
	volume    *widget.Slider
	volumeTxt *widget.Label
	mute      *widget.Check
	language  *widget.Select
	save      *widget.Button
	cancel    *widget.Button
	headings  map[string]*widget.Label
}

// New creates a preferences window.
func New(app fyne.App, catalog *i18n.Catalog, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Talk Timer")

	prefs := &Window{
		window:    window,
		catalog:   catalog,
		onSave:    onSave,
		rowsBox:   container.NewVBox(),
		volume:    widget.NewSlider(0, 1),
		volumeTxt: widget.NewLabel(""),
		mute:      widget.NewCheck("", nil),
		headings: map[string]*widget.Label{
			"markers":  widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			"volume":   widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			"language": widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		},
	}
	prefs.volume.Step = 0.01
	prefs.volume.OnChanged = func(value float64) {
		prefs.volumeTxt.SetText(formatPercent(value))
	}
	prefs.language = widget.NewSelect([]string{languageNames[i18n.Japanese], languageNames[i18n.English]}, nil)
	prefs.addButton = widget.NewButton("", func() {
		_, durations := NormalizeTotals(prefs.readTotals())
		prefs.setRows(AddMarker(durations))
	})

	form := container.NewVBox(
		prefs.headings["markers"],
		prefs.rowsBox,
		prefs.addButton,
		widget.NewSeparator(),
		prefs.headings["volume"],
		container.NewBorder(nil, nil, nil, prefs.volumeTxt, prefs.volume),
		prefs.mute,
		widget.NewSeparator(),
		prefs.headings["language"],
		prefs.language,
	)

	prefs.save = widget.NewButton("", prefs.handleSave)
	prefs.save.Importance = widget.HighImportance
	prefs.cancel = widget.NewButton("", func() {
		window.Hide()
	})
	buttons := container.NewHBox(prefs.save, layout.NewSpacer(), prefs.cancel)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(420, 520))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	settings.Durations = EnsureMinimumDurations(settings.Durations)
	prefs.settings = settings
	prefs.setRows(settings.Durations)
	prefs.volume.SetValue(settings.Volume)
	prefs.volumeTxt.SetText(formatPercent(settings.Volume))
	prefs.mute.SetChecked(settings.Muted)
	prefs.language.SetSelected(languageNames[settings.Language])
	prefs.Relabel()
}

// Relabel reapplies localized text.
func (prefs *Window) Relabel() {
	catalog := prefs.catalog
	prefs.window.SetTitle(catalog.T("settings"))
	prefs.headings["markers"].SetText(catalog.T("markers"))
	prefs.headings["volume"].SetText(catalog.T("volume"))
	prefs.headings["language"].SetText(catalog.T("language"))
	prefs.addButton.SetText(catalog.T("addMarker"))
	prefs.mute.Text = catalog.T("mute")
	prefs.mute.Refresh()
	prefs.save.SetText(catalog.T("save"))
	prefs.cancel.SetText(catalog.T("cancel"))
	_, durations := NormalizeTotals(prefs.readTotals())
	prefs.setRows(durations)
}

func (prefs *Window) setRows(durations []time.Duration) {
	prefs.rows = prefs.rows[:0]
	prefs.rowsBox.RemoveAll()

	for index, total := range Totals(durations) {
		row := markerRow{minutes: widget.NewEntry(), seconds: widget.NewEntry()}
		row.minutes.SetText(strconv.Itoa(total.Minutes))
		row.seconds.SetText(strconv.Itoa(total.Seconds))
		prefs.rows = append(prefs.rows, row)

		heading := widget.NewLabel(prefs.catalog.BellCount(model.DefaultChimeStrategy(index)))
		fields := container.NewHBox(
			row.minutes, widget.NewLabel(prefs.catalog.T("minutes")),
			row.seconds, widget.NewLabel(prefs.catalog.T("seconds")),
		)
		var remove fyne.CanvasObject = layout.NewSpacer()
		if index >= MinMarkers {
			position := index
			remove = widget.NewButton(prefs.catalog.Format("removeMarker", map[string]any{"Index": position + 1}), func() {
				_, current := NormalizeTotals(prefs.readTotals())
				prefs.setRows(RemoveMarker(current, position))
			})
		}
		prefs.rowsBox.Add(container.NewBorder(nil, nil, heading, remove, fields))
	}
}

func (prefs *Window) readTotals() []MarkerTotal {
	totals := make([]MarkerTotal, len(prefs.rows))
	for index, row := range prefs.rows {
		totals[index] = MarkerTotal{
			Minutes: parseNonNegativeInt(row.minutes.Text),
			Seconds: parseNonNegativeInt(row.seconds.Text),
		}
	}
	return totals
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	_, durations := NormalizeTotals(prefs.readTotals())
	settings.Durations = EnsureMinimumDurations(durations)
	settings.Volume = prefs.volume.Value
	settings.Muted = prefs.mute.Checked
	for code, name := range languageNames {
		if name == prefs.language.Selected {
			settings.Language = code
		}
	}

	prefs.settings = settings
	prefs.setRows(settings.Durations)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseNonNegativeInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%d%%", int(value*100+0.5))
}
