package main

import (
	"fmt"
	"os"

	"github.com/mayankwalia/MyBasketBackend/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mybasket-backend: %v\n", err)
		os.Exit(1)
	}
}
