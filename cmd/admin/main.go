package main

import (
	"fmt"
	"log"
	"os"

	"pairwave/backend/internal/config"
	"pairwave/backend/internal/storage"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Small ops CLI over the storage layer: inspect users, check or backfill
// interest edges when support needs to repair a pair.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil, zap.NewNop())

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: user <id> | like <from_id> <to_id> | mutual <a_id> <b_id>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin user <id>")
			os.Exit(1)
		}
		id := mustParseID(os.Args[2])
		user, err := storageSvc.GetUserByID(id)
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		fmt.Printf("User %d: %s (%s), interests: %v\n", user.ID, user.Username, user.FirstName, user.Interests)

	case "like":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin like <from_id> <to_id>")
			os.Exit(1)
		}
		from, to := mustParseID(os.Args[2]), mustParseID(os.Args[3])
		created, err := storageSvc.CreateLike(from, to)
		if err != nil {
			log.Fatalf("Error recording interest: %v", err)
		}
		if created {
			fmt.Printf("Interest %d -> %d recorded.\n", from, to)
		} else {
			fmt.Printf("Interest %d -> %d already existed.\n", from, to)
		}

	case "mutual":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin mutual <a_id> <b_id>")
			os.Exit(1)
		}
		a, b := mustParseID(os.Args[2]), mustParseID(os.Args[3])
		mutual, err := storageSvc.MutualLikeExists(a, b)
		if err != nil {
			log.Fatalf("Error checking consent: %v", err)
		}
		fmt.Printf("Mutual interest between %d and %d: %v\n", a, b, mutual)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func mustParseID(raw string) uint {
	var id uint
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
		fmt.Printf("Invalid id %q. Please provide an integer.\n", raw)
		os.Exit(1)
	}
	return id
}
