package db

import (
	"fmt"
	"log"
	"time"

	"github.com/barefootnomad/api/config"
	"github.com/barefootnomad/api/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

// GetDB connects to postgres and runs migrations and seeds.
func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

// Close releases the underlying connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Connect opens postgres without migrating.
func Connect(c *config.Config) *GormDB {
	return &GormDB{DB: getPostgresDB(c)}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: host=%s port=%d db=%s user=%s", c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresUser)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)

	gormDB, err := Open(postgres.New(postgres.Config{DSN: postgresDSN}), c.Env)
	if err != nil {
		log.Fatal(err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return gormDB
}

// Open wraps gorm.Open with the logger settings used across environments.
func Open(dialector gorm.Dialector, env string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}
	if env != "prod" && env != "test" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gorm.Open(dialector, gormConfig)
}

// Migrate creates the schema and seeds the reference data.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Blacklist{},
		&models.Location{},
		&models.Accommodation{},
		&models.Request{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	return Seed(db)
}

// Seed is idempotent; running it twice leaves one row per seeded name.
func Seed(db *gorm.DB) error {
	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}
	if err := SeedLocations(db); err != nil {
		return fmt.Errorf("seeding locations error: %v", err)
	}
	if err := SeedAccommodations(db); err != nil {
		return fmt.Errorf("seeding accommodations error: %v", err)
	}
	return nil
}

func SeedRoles(db *gorm.DB) error {
	for _, level := range models.AllRoleLevels() {
		// Match on name only; the id is just for the insert.
		var role models.Role
		err := db.Where(models.Role{Name: level.String()}).
			Attrs(models.Role{ID: uuid.New(), Value: level}).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
	}
	return nil
}

var seedLocations = []models.Location{
	{ID: 1, Name: "Kigali", Country: "Rwanda"},
	{ID: 2, Name: "Nairobi", Country: "Kenya"},
	{ID: 3, Name: "Lagos", Country: "Nigeria"},
}

func SeedLocations(db *gorm.DB) error {
	for _, location := range seedLocations {
		var found models.Location
		if err := db.Where(models.Location{Name: location.Name}).Attrs(location).FirstOrCreate(&found).Error; err != nil {
			log.Printf("Failed to seed location %s: %v", location.Name, err)
			return err
		}
	}
	return nil
}

var seedAccommodations = []models.Accommodation{
	{AccommodationName: "Kigali Marriott Hotel", LocationID: 1},
	{AccommodationName: "Kigali Serena Hotel", LocationID: 1},
	{AccommodationName: "Kigali Radisson Blu Hotel", LocationID: 1},
	{AccommodationName: "Four Seasons Hotel", LocationID: 2},
	{AccommodationName: "EKO Hotels & Suites", LocationID: 3},
}

func SeedAccommodations(db *gorm.DB) error {
	for _, accommodation := range seedAccommodations {
		var found models.Accommodation
		err := db.Where(models.Accommodation{AccommodationName: accommodation.AccommodationName}).
			Attrs(accommodation).
			FirstOrCreate(&found).Error
		if err != nil {
			log.Printf("Failed to seed accommodation %s: %v", accommodation.AccommodationName, err)
			return err
		}
	}
	return nil
}
