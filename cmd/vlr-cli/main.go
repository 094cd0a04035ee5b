package main

import (
	"context"
	"vlrgg-backend/cmd/vlr-cli/commands"
	"vlrgg-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
