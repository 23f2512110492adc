// Command main runs the database seeder.
package main

import (
	"flag"
	"log"

	"planit/internal/bootstrap"
	"planit/internal/config"
	"planit/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	tripsPerUser := flag.Int("trips", 2, "Number of trips per user")
	reviewRatio := flag.Float64("reviews", 0.6, "Fraction of trips that get a review (0..1)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d trips each, review ratio %.2f, clean=%v\n",
		*numUsers, *tripsPerUser, *reviewRatio, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedCities: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{
		Users:        *numUsers,
		TripsPerUser: *tripsPerUser,
		ReviewRatio:  *reviewRatio,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Test users have the password: password123")
	log.Println("API ready for local development.")
}
