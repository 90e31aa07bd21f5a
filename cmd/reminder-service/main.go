package main

import (
	"os"

	"github.com/remindly/remindly-server/reminderservice"
)

func main() {
	if err := reminderservice.Run(); err != nil {
		os.Exit(1)
	}
}
