package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"salonly/internal/bookings"
	"salonly/internal/salons"
	"salonly/internal/shared/config"
	"salonly/internal/shared/database"
	"salonly/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Salonly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned successfully")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("Database seeded successfully")

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"refund_dispatches",
		"cancellations",
		"bookings",
		"offerings",
		"salons",
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

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	salonIDs, offeringIDs, err := s.SeedSalons(userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed salons: %w", err)
	}

	if err := s.SeedBookings(userIDs, salonIDs, offeringIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates an admin, two customers, and two salon owners
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Same password for all seeded users
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@salonly.in", "+919800000001", users.RoleAdmin},
		{"customer1", "Priya", "Sharma", "priya.sharma@example.com", "+919800000002", users.RoleCustomer},
		{"customer2", "Rahul", "Verma", "rahul.verma@example.com", "+919800000003", users.RoleCustomer},
		{"owner1", "Anita", "Desai", "anita@glowstudio.in", "+919800000004", users.RoleBusiness},
		{"owner2", "Vikram", "Mehta", "vikram@urbanshears.in", "+919800000005", users.RoleBusiness},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedSalons creates salons with their service offerings
func (s *Seeder) SeedSalons(userIDs map[string]uuid.UUID) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	fmt.Println("  Seeding salons and offerings...")

	salonIDs := make(map[string]uuid.UUID)
	offeringIDs := make(map[string]uuid.UUID)

	salonsData := []struct {
		key         string
		name        string
		description string
		address     string
		city        string
		ownerKey    string
		status      salons.SalonStatus
		offerings   []struct {
			key             string
			name            string
			description     string
			pricePaisa      int64
			durationMinutes int
			active          bool
		}
	}{
		{
			key:         "glow",
			name:        "Glow Studio",
			description: "Full-service beauty studio for hair, skin, and nails.",
			address:     "12 Linking Road, Bandra West",
			city:        "Mumbai",
			ownerKey:    "owner1",
			status:      salons.StatusActive,
			offerings: []struct {
				key             string
				name            string
				description     string
				pricePaisa      int64
				durationMinutes int
				active          bool
			}{
				{"glow-haircut", "Signature Haircut", "Wash, cut, and blow-dry.", 80000, 45, true},
				{"glow-facial", "Hydrating Facial", "Deep-cleanse facial with hydration mask.", 150000, 60, true},
				{"glow-bridal", "Bridal Package", "Full bridal styling. Currently unavailable.", 1200000, 240, false},
			},
		},
		{
			key:         "urban",
			name:        "Urban Shears",
			description: "Classic barbershop with modern grooming services.",
			address:     "4 MG Road, Indiranagar",
			city:        "Bengaluru",
			ownerKey:    "owner2",
			status:      salons.StatusActive,
			offerings: []struct {
				key             string
				name            string
				description     string
				pricePaisa      int64
				durationMinutes int
				active          bool
			}{
				{"urban-trim", "Beard Trim", "Precision beard shaping with hot towel.", 40000, 30, true},
				{"urban-cut", "Classic Cut", "Scissor cut with styling.", 60000, 40, true},
			},
		},
	}

	for _, salonData := range salonsData {
		salon := salons.Salon{
			ID:          uuid.New(),
			Name:        salonData.name,
			Description: salonData.description,
			Address:     salonData.address,
			City:        salonData.city,
			Timezone:    "Asia/Kolkata",
			Status:      salonData.status,
			OwnerID:     userIDs[salonData.ownerKey],
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&salon).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create salon %s: %w", salon.Name, err)
		}

		salonIDs[salonData.key] = salon.ID
		fmt.Printf("    Created salon: %s (%s)\n", salon.Name, salon.City)

		for _, offeringData := range salonData.offerings {
			offering := salons.Offering{
				ID:              uuid.New(),
				SalonID:         salon.ID,
				Name:            offeringData.name,
				Description:     offeringData.description,
				PricePaisa:      offeringData.pricePaisa,
				DurationMinutes: offeringData.durationMinutes,
				Active:          offeringData.active,
				CreatedAt:       time.Now(),
				UpdatedAt:       time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&offering).Error; err != nil {
				return nil, nil, fmt.Errorf("failed to create offering %s: %w", offering.Name, err)
			}

			offeringIDs[offeringData.key] = offering.ID
			fmt.Printf("      Created offering: %s (%.2f INR)\n", offering.Name, float64(offering.PricePaisa)/100)
		}
	}

	return salonIDs, offeringIDs, nil
}

// SeedBookings creates confirmed bookings at various lead times so every
// fee tier is reachable from the seeded data
func (s *Seeder) SeedBookings(userIDs, salonIDs, offeringIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding bookings...")

	bookingsData := []struct {
		userKey     string
		salonKey    string
		offeringKey string
		amountPaisa int64
		hoursAhead  int
		status      bookings.Status
	}{
		// Far enough out for a free cancellation
		{"customer1", "glow", "glow-facial", 150000, 30 * 24, bookings.StatusConfirmed},
		// Inside the partial-fee window
		{"customer1", "urban", "urban-cut", 60000, 48, bookings.StatusConfirmed},
		// Inside the full-fee window
		{"customer2", "urban", "urban-trim", 40000, 6, bookings.StatusConfirmed},
		// Already completed, not cancellable
		{"customer2", "glow", "glow-haircut", 80000, -72, bookings.StatusCompleted},
	}

	for _, bookingData := range bookingsData {
		ref, err := generateBookingRef()
		if err != nil {
			return fmt.Errorf("failed to generate booking ref: %w", err)
		}

		scheduledAt := time.Now().Add(time.Duration(bookingData.hoursAhead) * time.Hour)

		booking := bookings.Booking{
			ID:          uuid.New(),
			UserID:      userIDs[bookingData.userKey],
			SalonID:     salonIDs[bookingData.salonKey],
			OfferingID:  offeringIDs[bookingData.offeringKey],
			ScheduledAt: scheduledAt,
			AmountPaisa: bookingData.amountPaisa,
			Status:      bookingData.status,
			BookingRef:  ref,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if booking.Status == bookings.StatusCompleted {
			completedAt := scheduledAt.Add(time.Hour)
			booking.CompletedAt = &completedAt
		}

		if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking %s: %w", ref, err)
		}

		fmt.Printf("    Created booking: %s (%s, %dh ahead)\n", ref, booking.Status, bookingData.hoursAhead)
	}

	return nil
}

// generateBookingRef builds a reference like SLN-20260901-A1B2C3
func generateBookingRef() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	for i := range suffix {
		suffix[i] = charset[int(suffix[i])%len(charset)]
	}

	return fmt.Sprintf("SLN-%s-%s", time.Now().Format("20060102"), string(suffix)), nil
}
