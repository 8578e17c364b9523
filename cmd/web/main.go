package main

import "comicweb_backend/internal/app"

func main() {
	app.Run()
}
