package main

import (
	"fmt"

	"talktimer/internal/audio"
	"talktimer/internal/core/timekeeper"
	"talktimer/internal/platform"
	"talktimer/internal/ui/animation"
	"talktimer/internal/ui/display"
	"talktimer/internal/ui/preferences"
	"talktimer/internal/ui/tray"
	"talktimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

// runGUI opens the timer window. Every TimeKeeper call happens on the fyne
// render goroutine: button and menu handlers run there, and so do the
// animation ticks that deliver frames.
func runGUI(env *environment) error {
	guard, err := platform.AcquireSingleInstance(appID)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	logger := env.logger
	catalog := env.catalog
	settings := env.settings

	fyneApp := app.NewWithID(appID)
	activeIcon := resources.MustIcon("app.svg")
	pausedIcon := resources.MustIcon("paused.svg")
	fyneApp.SetIcon(activeIcon)

	player := audio.NewPlayer(logger)
	player.SetVolume(settings.Volume)
	player.SetMuted(settings.Muted)
	defer func() {
		if err := player.Close(); err != nil {
			logger.Warn("close audio", "error", err)
		}
	}()

	keeper := timekeeper.New(settings.TimerConfig(), timekeeper.Options{Frames: animation.NewFrames()})

	var window *display.Window
	var trayManager *tray.Manager
	var prefsWindow *preferences.Window

	saveSettings := func() {
		if err := env.store.SaveSettings(settings); err != nil {
			logger.Error("save settings", "path", env.store.Path(), "error", err)
			window.ShowMessage(catalog.T("savingError"), display.MessageError)
		}
	}

	// The device is opened on first use so a machine without audio still
	// gets a working timer.
	gate := &audioGate{ready: player.Ready, init: player.Init}
	ensureAudio := func(explicit bool) bool {
		state, err := gate.open(explicit)
		switch state {
		case audioFailed:
			logger.Error("init audio", "error", err)
			window.ShowMessage(catalog.T("audioError"), display.MessageError)
		case audioOpened:
			window.ShowMessage(catalog.T("audioReady"), display.MessageSuccess)
		}
		return state.usable()
	}
	playChime := func(count int, explicit bool) {
		if !ensureAudio(explicit) {
			return
		}
		if err := player.PlayChime(count); err != nil {
			logger.Error("play chime", "count", count, "error", err)
			window.ShowMessage(catalog.T("audioError"), display.MessageError)
		}
	}
	start := func() {
		ensureAudio(false)
		keeper.Start()
	}
	toggle := func() {
		switch display.ToggleAction(keeper.Status()) {
		case display.ActionPause:
			keeper.Pause()
		case display.ActionResume:
			keeper.Resume()
		default:
			start()
		}
	}

	window = display.New(fyneApp, catalog, keeper.ChimeCount, display.Actions{
		OnStart:  start,
		OnPause:  keeper.Pause,
		OnResume: keeper.Resume,
		OnReset:  keeper.Reset,
		OnSkip:   keeper.Skip,
		OnChime: func(count int) {
			playChime(count, true)
		},
		OnSettings: func() {
			prefsWindow.Show()
		},
		OnToggleLanguage: func() {
			catalog.Toggle()
		},
	})

	prefsWindow = preferences.New(fyneApp, catalog, settings, func(updated preferences.Settings) {
		settings = updated
		keeper.SetDurations(settings.Durations)
		player.SetVolume(settings.Volume)
		player.SetMuted(settings.Muted)
		if !catalog.SetLanguage(settings.Language) {
			saveSettings()
		}
	})

	catalog.OnChange(func(lang string) {
		settings.Language = lang
		window.Relabel()
		prefsWindow.Relabel()
		if trayManager != nil {
			trayManager.Relabel()
		}
		saveSettings()
	})

	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, catalog, tray.Callbacks{
			OnShow:        window.Show,
			OnToggle:      toggle,
			OnSkip:        keeper.Skip,
			OnReset:       keeper.Reset,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(activeIcon)
		window.Window().SetCloseIntercept(window.Window().Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
		window.Window().SetMaster()
	}

	lastStatus := keeper.Status()
	keeper.ConfigureCallbacks(timekeeper.Callbacks{
		OnTick: func(snapshot timekeeper.Snapshot) {
			window.Render(snapshot)
			if trayManager == nil {
				return
			}
			text, _ := display.TimeText(snapshot)
			trayManager.Update(snapshot, text)
			if snapshot.Status != lastStatus {
				lastStatus = snapshot.Status
				desktopApp.SetSystemTrayIcon(trayIcon(snapshot.Status, activeIcon, pausedIcon))
			}
		},
		OnSectionEnd: func(index int, chimes int) {
			logger.Info("marker reached", "index", index, "chimes", chimes)
			window.MarkerCrossed(chimes)
			playChime(chimes, false)
		},
		OnComplete: func() {
			logger.Info("schedule complete, tracking overtime")
			window.ShowMessage(catalog.T("finished"), display.MessageSuccess)
		},
	})

	fyneApp.Lifecycle().SetOnStopped(window.Close)
	window.Show()
	fyneApp.Run()
	return nil
}

func trayIcon(status timekeeper.Status, active, paused fyne.Resource) fyne.Resource {
	if status == timekeeper.StatusPaused {
		return paused
	}
	return active
}
