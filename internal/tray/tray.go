// Package tray is the status channel's visible end: a systray item whose
// title and tooltip track the capture session's state and last verdict.
// All real UI concerns live outside this repository; this adapter only
// renders what the orchestrator reports and lets the user pick the capture
// microphone.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/audio"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/capture"
	"github.com/bajoriya-vaibhav/Deepfake-DeepLearning/internal/config"
)

type UI struct {
	cfg    *config.Config
	log    zerolog.Logger
	onQuit func()

	mu    sync.Mutex
	ready bool

	mDevices *systray.MenuItem
}

func New(cfg *config.Config, log zerolog.Logger, onQuit func()) *UI {
	return &UI{cfg: cfg, log: log, onQuit: onQuit}
}

// Run starts the systray loop. MUST run on the main thread.
func (u *UI) Run() error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.mu.Lock()
	u.ready = true
	u.mu.Unlock()

	systray.SetTitle("🛰 starting")
	systray.SetTooltip("Deepfake capture agent")

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio device")
	u.buildDeviceMenu()

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop capturing and exit")
	go func() {
		<-mQuit.ClickedCh
		systray.Quit()
	}()
}

// buildDeviceMenu lists input devices under the Microphone item. A new
// choice is persisted to the config; the capture ladder picks it up on the
// next session start.
func (u *UI) buildDeviceMenu() {
	devices, err := audio.ListDevices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
		return
	}

	deviceItems := make(map[string]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name, "")
		if dev.ID == u.cfg.Audio.DeviceID || (u.cfg.Audio.DeviceID == "" && dev.Default) {
			item.Check()
		}
		deviceItems[dev.ID] = item

		go func(deviceID, deviceName string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				// Uncheck all other items
				for id, itm := range deviceItems {
					if id != deviceID {
						itm.Uncheck()
					}
				}
				// Check this item
				menuItem.Check()
				if err := chooseDevice(u.cfg, deviceID); err != nil {
					u.log.Error().Err(err).Msg("Failed to save device choice")
					continue
				}
				u.log.Info().Str("device", deviceName).Msg("Changed audio device; applies next session")
			}
		}(dev.ID, dev.Name, item)
	}
}

// chooseDevice records the selected capture device in the config.
func chooseDevice(cfg *config.Config, deviceID string) error {
	cfg.Audio.DeviceID = deviceID
	return cfg.Save()
}

func (u *UI) onExit() {
	if u.onQuit != nil {
		u.onQuit()
	}
}

// Report implements capture.Reporter. Called on every state transition and
// every completed exchange.
func (u *UI) Report(ev capture.Event) {
	u.mu.Lock()
	ready := u.ready
	u.mu.Unlock()
	if !ready {
		return
	}

	title := statusTitle(ev.Status)
	if ev.Simulated {
		title += " (sim)"
	}
	systray.SetTitle(title)

	switch {
	case ev.Label != "":
		systray.SetTooltip(fmt.Sprintf("Last verdict: %s (%.0f%%)", ev.Label, ev.Confidence*100))
	case ev.Err != "":
		systray.SetTooltip("Last error: " + ev.Err)
	}
}

func statusTitle(s capture.Status) string {
	switch s {
	case capture.StatusStarting:
		return "🛰 starting"
	case capture.StatusCapturing:
		return "🛰 capturing"
	case capture.StatusAnalyzing:
		return "🛰 analyzing"
	case capture.StatusIdle:
		return "🛰 idle"
	case capture.StatusError:
		return "🛰 error"
	default:
		return "🛰"
	}
}
