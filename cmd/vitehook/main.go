package main

import (
	"os"

	"github.com/schmitthub/vitehook/internal/vitehook"
)

func main() {
	os.Exit(vitehook.Main())
}
