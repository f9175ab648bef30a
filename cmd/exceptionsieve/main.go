package main

import "github.com/Egor213/ExceptionSieve/internal/app"

func main() {
	app.Run()
}
