package main

import "jobportal_backend/internal/app"

func main() {
	app.RunGateway()
}
