// cmd/obreset/main.go
package main

import (
	"github.com/tamzrod/ob-reset/internal/board"
	"github.com/tamzrod/ob-reset/internal/optionbyte"
	"github.com/tamzrod/ob-reset/internal/supervisor"
)

func main() {
	h := board.Open()

	sup, err := supervisor.New(
		supervisor.Config{Policy: supervisor.PolicyRetry},
		h.Block(),
		optionbyte.WithCriticalSection(h.Critical),
	)
	if err != nil {
		panic(err)
	}

	// Never returns.
	sup.Forever(h.Controller)
}
