package main

import (
	"io"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/calvinmclean/servospeed/controller"
	"github.com/calvinmclean/servospeed/ui"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			application := app.NewWithID("com.calvinmclean.servospeed")
			testerUI := ui.NewTesterUI()

			var c *controller.Controller
			defer func() {
				if c != nil {
					c.Close()
				}
			}()

			configWindow := ui.NewConfigWindow(application)
			configWindow.OnSubmit = func() {
				c, err = controller.New(cfg)
				if err != nil {
					log.Printf("ui: error creating controller: %v", err)
					application.Quit()
					return
				}

				r, w := io.Pipe()

				// read from Stdin also. The pipe stays open after Stdin ends so the buttons keep working
				go func() {
					_, _ = io.Copy(w, os.Stdin)
				}()

				go func() {
					err := c.Run(ctx, r, io.MultiWriter(os.Stdout, testerUI))
					if err != nil {
						log.Printf("ui: controller stopped: %v", err)
					}
					fyne.Do(application.Quit)
				}()

				testerUI.Window(application, w).Show()
			}
			configWindow.Show(&cfg)

			go func() {
				<-ctx.Done()
				fyne.Do(application.Quit)
			}()

			application.Run()

			if c != nil {
				log.Printf("ui: %s", c.Summary())
			}
			return err
		},
	}
}
