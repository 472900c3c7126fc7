package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo floor, its spaces and one user per role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"bookings", "spaces", "floors", "coworkings", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []struct {
			Email      string
			Name       string
			Department string
			Role       string
		}{
			{"admin@mail.com", "Padil Admin", "Operations", "admin"},
			{"manager@mail.com", "Mira Manager", "Design", "manager"},
			{"fadhil@mail.com", "Fadhil", "Design", "employee"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}

			if err := db.Exec("INSERT INTO users (id, email, name, password_hash, department, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, now(), now())",
				uuid.NewString(), u.Email, u.Name, string(hash), u.Department, u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		coworkingID := seedCoworking(db, "Main Coworking")
		floorID := seedFloor(db, coworkingID, "Level 1")

		spaces := []struct {
			Label string
			Seats int
		}{
			{"Desk 1", 1},
			{"Desk 2", 1},
			{"Desk 3", 1},
			{"Desk 4", 1},
			{"Room A", 6},
			{"Room B", 4},
		}

		for _, s := range spaces {
			var exists int
			if err := db.Raw("SELECT 1 FROM spaces WHERE floor_id = ? AND label = ?", floorID, s.Label).Row().Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec("INSERT INTO spaces (id, floor_id, label, seats, created_at) VALUES (?, ?, ?, ?, now())",
				uuid.NewString(), floorID, s.Label, s.Seats).Error; err != nil {
				log.Fatalf("failed to insert space %s: %v", s.Label, err)
			}
			fmt.Printf("Seeded space: %s\n", s.Label)
		}

		fmt.Println("Sample data seeded successfully, every user logs in with password:", password)
	},
}

func seedCoworking(db *gorm.DB, name string) string {
	var coworkingID string
	if err := db.Raw("SELECT id FROM coworkings WHERE name = ?", name).Row().Scan(&coworkingID); err == nil {
		return coworkingID
	}

	coworkingID = uuid.NewString()
	if err := db.Exec("INSERT INTO coworkings (id, name, created_at) VALUES (?, ?, now())", coworkingID, name).Error; err != nil {
		log.Fatalf("failed to insert coworking %s: %v", name, err)
	}
	fmt.Println("Seeded coworking:", name)
	return coworkingID
}

func seedFloor(db *gorm.DB, coworkingID, name string) string {
	var floorID string
	if err := db.Raw("SELECT id FROM floors WHERE coworking_id = ? AND name = ?", coworkingID, name).Row().Scan(&floorID); err == nil {
		return floorID
	}

	floorID = uuid.NewString()
	if err := db.Exec("INSERT INTO floors (id, coworking_id, name, created_at) VALUES (?, ?, ?, now())", floorID, coworkingID, name).Error; err != nil {
		log.Fatalf("failed to insert floor %s: %v", name, err)
	}
	fmt.Println("Seeded floor:", name)
	return floorID
}
