package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"garrison/internal/config"
	"garrison/internal/db"
	"garrison/internal/models"
	"garrison/internal/tasks"
	"garrison/internal/utils/logger"

	"github.com/joho/godotenv"
)

// Operator CLI: seed the first admin account and enqueue ledger snapshots
// outside the nightly schedule.
func main() {
	var log = logger.New("helper")
	log.Info("🛠️ Starting operator helper CLI")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("❌ Failed to load configuration", err)
		return
	}

	if err := db.Connect(cfg); err != nil {
		log.Error("❌ Failed to connect to database", err)
		return
	}
	defer db.Close()

	taskClient := tasks.NewTaskClient(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	defer taskClient.Close()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'a' to seed the admin account, 's' to enqueue a ledger snapshot, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "q":
			log.Info("👋 Exiting helper CLI")
			return
		case "a":
			if err := models.CreateAdminFromEnv(db.GetDB()); err != nil {
				log.Error("❌ Admin seeding failed", err)
			} else {
				log.Success("✅ Admin account ready")
			}
		case "s":
			fmt.Print("Enter a base id, or leave empty for all bases: ")
			baseID, _ := reader.ReadString('\n')
			baseID = strings.TrimSpace(baseID)
			if err := taskClient.EnqueueSnapshot(baseID); err != nil {
				log.Error("❌ Could not enqueue snapshot", err)
			} else {
				log.Success("✅ Snapshot enqueued")
			}
		default:
			log.Warn("⚠️ Invalid choice. Please enter 'a', 's', or 'q'.")
		}
	}
}
