package main

import (
	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/app"
	"github.com/niksmo/furnistore/pkg/sigctx"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	contentSync := app.NewContentSync(sigCtx, cfg)

	contentSync.Run(closeApp)

	<-sigCtx.Done()
	contentSync.Close()
}
