package main

import (
	"github.com/CaptainSlog/morserx/cmd"
	"github.com/CaptainSlog/morserx/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
