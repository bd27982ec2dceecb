package main

import (
	"os"

	"github.com/dhowell/biblio/app"
)

func main() {
	os.Exit(app.CLI(os.Args[1:]))
}
