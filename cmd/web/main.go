package main

import "shiftscore_backend/internal/app"

func main() {
	app.Run()
}
