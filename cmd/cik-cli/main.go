package main

import (
	"context"
	"os"

	"vybory-backend/cmd/cik-cli/commands"
	"vybory-backend/lib/serviceutil"
	"vybory-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)

	err := telemetry.SetupFromEnv(context.Background(), "cik-cli")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to set up telemetry", err)
	}

	commands.ExecuteContext(serviceutil.SignalContext())
}
