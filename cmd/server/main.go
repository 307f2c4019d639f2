package main

import (
	_ "github.com/agentvoice/relay/docs"
	"github.com/agentvoice/relay/internal/bootstrap"
)

// @title Agent Voice Relay API
// @version 1.0.0
// @description Relay between browser audio clients and a remote conversational agent

// @BasePath /v1

func main() {
	bootstrap.Run()
}
