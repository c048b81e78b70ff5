package main

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/course-hub/config"
	"github.com/sahilchouksey/course-hub/database"
	"github.com/sahilchouksey/course-hub/utils/auth"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Open the reference backend database
	store, err := database.Open(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Course Hub - Database Seeding")
	fmt.Println(separator)

	seeder := database.NewSeeder(store.DB(), auth.NewHasher(env.BCRYPT_COST))
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(separator)
	fmt.Println("Seeding completed. Demo accounts:")
	fmt.Printf("  prof / %s (professor)\n", database.DemoPassword)
	fmt.Printf("  student / %s (student)\n", database.DemoPassword)
	fmt.Println(separator)
}
