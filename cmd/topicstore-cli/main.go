package main

import (
	"github.com/nfrund/topicstore/cmd/topicstore-cli/cmd"
	"github.com/nfrund/topicstore/internal/logging"
)

func main() {
	logging.New()
	cmd.Execute()
}
