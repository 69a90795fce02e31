package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitbook/internal/classes"
	"fitbook/internal/shared/config"
	"fitbook/internal/shared/database"
	"fitbook/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting FitBook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"reservations",
		"classes",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed the class schedule
	if err := s.SeedClasses(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed classes: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 2 members
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@fitbook.dev", users.RoleAdmin},
		{"member1", "Sofia", "Reyes", "sofia.reyes@example.com", users.RoleMember},
		{"member2", "Daniel", "Kim", "daniel.kim@example.com", users.RoleMember},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedClasses creates a week of sample classes across all categories
func (s *Seeder) SeedClasses(adminID uuid.UUID) error {
	fmt.Println("  🏋️ Seeding classes...")

	classesData := []struct {
		name        string
		description string
		instructor  string
		category    string
		icon        string
		daysFromNow int
		startTime   string
		endTime     string
		totalSpots  int
	}{
		{
			name:        "Sunrise Vinyasa Yoga",
			description: "Flowing yoga sequence to start the day with energy and focus.",
			instructor:  "Maria Lopez",
			category:    "yoga",
			icon:        "🧘",
			daysFromNow: 1,
			startTime:   "07:00",
			endTime:     "08:00",
			totalSpots:  20,
		},
		{
			name:        "Power Spinning",
			description: "High-intensity interval cycling session with music-driven climbs and sprints.",
			instructor:  "Jake Torres",
			category:    "spinning",
			icon:        "🚴",
			daysFromNow: 1,
			startTime:   "18:00",
			endTime:     "18:45",
			totalSpots:  15,
		},
		{
			name:        "Strength Foundations",
			description: "Barbell fundamentals covering squat, bench and deadlift technique.",
			instructor:  "Priya Nair",
			category:    "weights",
			icon:        "🏋️",
			daysFromNow: 2,
			startTime:   "17:30",
			endTime:     "18:30",
			totalSpots:  12,
		},
		{
			name:        "Functional Circuit",
			description: "Full-body circuit using kettlebells, sleds and bodyweight movements.",
			instructor:  "Omar Haddad",
			category:    "functional",
			icon:        "⚡",
			daysFromNow: 3,
			startTime:   "12:00",
			endTime:     "12:50",
			totalSpots:  18,
		},
		{
			name:        "CrossFit WOD",
			description: "Workout of the day with scaled options for every level.",
			instructor:  "Jake Torres",
			category:    "crossfit",
			icon:        "🔥",
			daysFromNow: 4,
			startTime:   "19:00",
			endTime:     "20:00",
			totalSpots:  16,
		},
		{
			name:        "Restorative Yin Yoga",
			description: "Slow-paced practice holding poses to release deep tension.",
			instructor:  "Maria Lopez",
			category:    "yoga",
			icon:        "🌙",
			daysFromNow: 5,
			startTime:   "20:00",
			endTime:     "21:00",
			totalSpots:  25,
		},
		{
			name:        "Endurance Ride",
			description: "Steady-state cycling session building aerobic capacity.",
			instructor:  "Sara Bianchi",
			category:    "spinning",
			icon:        "🚵",
			daysFromNow: 6,
			startTime:   "08:00",
			endTime:     "09:00",
			totalSpots:  15,
		},
	}

	for _, classData := range classesData {
		class := classes.Class{
			ID:          uuid.New(),
			Name:        classData.name,
			Description: classData.description,
			Instructor:  classData.instructor,
			Category:    classData.category,
			Icon:        classData.icon,
			Date:        time.Now().AddDate(0, 0, classData.daysFromNow),
			StartTime:   classData.startTime,
			EndTime:     classData.endTime,
			TotalSpots:  classData.totalSpots,
			Status:      classes.StatusActive,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&class).Error; err != nil {
			return fmt.Errorf("failed to create class %s: %w", class.Name, err)
		}

		fmt.Printf("    ✅ Created class: %s (%s, %d spots)\n", class.Name, class.Category, class.TotalSpots)
	}

	return nil
}
