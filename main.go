package main

import "helphub-backend/internal/app"

func main() {
	app.Run()
}
