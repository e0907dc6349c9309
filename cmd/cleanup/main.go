// Command cleanup purges expired sessions and password reset tokens. It is
// intended to be run from cron on deployments where the server's in-process
// sweeper is not enough, or after restoring a database from backup.
package main

import (
	"flag"
	"log"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/repository"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)

	if *dryRun {
		sessions, err := userRepo.CountExpiredSessions()
		if err != nil {
			log.Fatalf("Failed to count expired sessions: %v", err)
		}
		tokens, err := userRepo.CountExpiredPasswordResetTokens()
		if err != nil {
			log.Fatalf("Failed to count expired reset tokens: %v", err)
		}
		log.Printf("Would delete %d expired sessions and %d expired reset tokens", sessions, tokens)
		return
	}

	if err := userRepo.DeleteExpiredSessions(); err != nil {
		log.Fatalf("Failed to delete expired sessions: %v", err)
	}
	if err := userRepo.DeleteExpiredPasswordResetTokens(); err != nil {
		log.Fatalf("Failed to delete expired reset tokens: %v", err)
	}
	log.Println("Cleanup complete")
}
