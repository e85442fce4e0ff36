package main

import (
	"flag"

	"campushub.events/configs/configsdatabase"
	"campushub.events/configs/configslog"
	"campushub.events/database"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "run database migrations")
	seedFlag := flag.Bool("seed", false, "run database seeders")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	if err := database.Initialize(configsdatabase.GetDB(), *migrateFlag, *seedFlag); err != nil {
		configslog.SLog.Fatalf("database initialization failed: %v", err)
	}
	configslog.SLog.Info("database initialization finished")
}
