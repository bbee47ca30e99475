package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/servospeed/config"
	"github.com/calvinmclean/servospeed/controller"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func()
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *config.Config) {
	prefs := cw.app.Preferences()
	cfg.Serial.Port = prefs.StringWithFallback("serialPort", cfg.Serial.Port)
	cfg.Serial.BaudRate = prefs.IntWithFallback("baudRate", cfg.Serial.BaudRate)
	cfg.Report.Addr = prefs.StringWithFallback("reportAddr", cfg.Report.Addr)
	cfg.Report.Session = prefs.StringWithFallback("sessionName", cfg.Report.Session)
	cfg.MQTT.Broker = prefs.StringWithFallback("mqttBroker", cfg.MQTT.Broker)
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *config.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.Serial.Port)
	prefs.SetInt("baudRate", cfg.Serial.BaudRate)
	prefs.SetString("reportAddr", cfg.Report.Addr)
	prefs.SetString("sessionName", cfg.Report.Session)
	prefs.SetString("mqttBroker", cfg.MQTT.Broker)
}

// Show asks for the connection settings. Reporting settings are optional
func (cw *ConfigWindow) Show(cfg *config.Config) {
	window := cw.app.NewWindow("Servo Speed - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		ShowError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.Serial.Port == "" {
		cfg.Serial.Port = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.Serial.Port))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.IntToString(binding.BindInt(&cfg.Serial.BaudRate)))

	reportAddrEntry := widget.NewEntry()
	reportAddrEntry.Bind(binding.BindString(&cfg.Report.Addr))

	sessionEntry := widget.NewEntry()
	sessionEntry.Bind(binding.BindString(&cfg.Report.Session))

	mqttBrokerEntry := widget.NewEntry()
	mqttBrokerEntry.Bind(binding.BindString(&cfg.MQTT.Broker))

	submitButton := widget.NewButton("Submit", func() {
		cw.saveConfigToPreferences(cfg)
		cw.OnSubmit()
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		if cfg.Validate() == nil && cfg.Serial.Port != "" {
			submitButton.Enable()
		} else {
			submitButton.Disable()
		}
	}

	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	reportAddrEntry.OnChanged = func(_ string) { validateForm() }
	sessionEntry.OnChanged = func(_ string) { validateForm() }
	mqttBrokerEntry.OnChanged = func(_ string) { validateForm() }

	validateForm()

	form := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Report Address:"),
				reportAddrEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Session Name:"),
				sessionEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("MQTT Broker:"),
				mqttBrokerEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

// ShowError shows err and quits the application once it is dismissed
func ShowError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
