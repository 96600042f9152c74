package main

import (
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/app"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
