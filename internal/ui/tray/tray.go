// Package tray mirrors the timer controls in the system tray.
package tray

import (
	"talktimer/internal/core/timekeeper"
	"talktimer/internal/i18n"
	"talktimer/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggle      func()
	OnSkip        func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	catalog    *i18n.Catalog
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	showItem   *fyne.MenuItem
	toggleItem *fyne.MenuItem
	skipItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	prefsItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem
	status     timekeeper.Status
	timeText   string
	hasNext    bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, catalog *i18n.Catalog, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		catalog:   catalog,
		callbacks: callbacks,
		status:    timekeeper.StatusIdle,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.showItem = fyne.NewMenuItem("Talk Timer", invoke(&manager.callbacks.OnShow))
	manager.toggleItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnToggle))
	manager.skipItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnSkip))
	manager.resetItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnReset))
	manager.prefsItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.Relabel()
	return manager
}

// Update reflects a new snapshot. The menu is rebuilt only when something
// visible changed.
func (manager *Manager) Update(snapshot timekeeper.Snapshot, timeText string) {
	if snapshot.Status == manager.status && timeText == manager.timeText && snapshot.HasNext() == manager.hasNext {
		return
	}
	manager.status = snapshot.Status
	manager.timeText = timeText
	manager.hasNext = snapshot.HasNext()
	manager.Relabel()
}

// Relabel reapplies localized text and enablement, then republishes the menu.
func (manager *Manager) Relabel() {
	catalog := manager.catalog
	manager.statusItem.Label = statusLabel(catalog, manager.status, manager.timeText)

	switch display.ToggleAction(manager.status) {
	case display.ActionPause:
		manager.toggleItem.Label = catalog.T("pause")
	case display.ActionResume:
		manager.toggleItem.Label = catalog.T("resume")
	default:
		manager.toggleItem.Label = catalog.T("start")
	}
	manager.skipItem.Label = catalog.T("skip")
	manager.skipItem.Disabled = !manager.hasNext || manager.status == timekeeper.StatusIdle
	manager.resetItem.Label = catalog.T("reset")
	manager.prefsItem.Label = catalog.T("settings")
	manager.quitItem.Label = catalog.T("quit")
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Talk Timer",
		manager.statusItem,
		manager.showItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.skipItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	))
}

func statusLabel(catalog *i18n.Catalog, status timekeeper.Status, timeText string) string {
	label := display.StatusText(catalog, status)
	if timeText != "" {
		label += " " + timeText
	}
	return label
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
