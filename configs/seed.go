package configs

import (
	"fmt"

	"github.com/Vishnukant2275/easyorderin/entity"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedStaff creates the first staff account from STAFF_EMAIL/STAFF_PASSWORD.
func SeedStaff(database *gorm.DB, cfg *Config, log *zap.Logger) error {
	if cfg.StaffEmail == "" || cfg.StaffPassword == "" || cfg.StaffRestaurantID == 0 {
		log.Info("skip seeding staff: missing STAFF_EMAIL/STAFF_PASSWORD/STAFF_RESTAURANT_ID")
		return nil
	}

	var count int64
	if err := database.Model(&entity.Staff{}).Where("email = ?", cfg.StaffEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("staff already exists", zap.String("email", cfg.StaffEmail))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.StaffPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return database.Create(&entity.Staff{
		Email:        cfg.StaffEmail,
		PasswordHash: string(hash),
		Name:         "Manager",
		Role:         "owner",
		RestaurantID: cfg.StaffRestaurantID,
	}).Error
}

// SeedDemo provisions a demo restaurant with ten tables and a small menu.
func SeedDemo(database *gorm.DB, log *zap.Logger) (*entity.Restaurant, error) {
	rest := entity.Restaurant{Name: "Demo Kitchen"}
	if err := database.Where(entity.Restaurant{Name: rest.Name}).
		Attrs(entity.Restaurant{Address: "MG Road"}).
		FirstOrCreate(&rest).Error; err != nil {
		return nil, err
	}

	for n := 1; n <= 10; n++ {
		t := entity.Table{RestaurantID: rest.ID, Number: n}
		if err := database.Where(entity.Table{RestaurantID: rest.ID, Number: n}).
			Attrs(entity.Table{Status: entity.TableAvailable}).
			FirstOrCreate(&t).Error; err != nil {
			return nil, fmt.Errorf("seed table %d: %w", n, err)
		}
	}

	menu := []entity.MenuItem{
		{Name: "Masala Dosa", Price: 100},
		{Name: "Filter Coffee", Price: 50},
		{Name: "Paneer Tikka", Price: 220},
		{Name: "Gulab Jamun", Price: 80},
	}
	for _, m := range menu {
		item := entity.MenuItem{}
		if err := database.Where(entity.MenuItem{RestaurantID: rest.ID, Name: m.Name}).
			Attrs(entity.MenuItem{Price: m.Price, Available: true}).
			FirstOrCreate(&item).Error; err != nil {
			return nil, fmt.Errorf("seed menu %q: %w", m.Name, err)
		}
	}

	log.Info("demo data seeded", zap.Uint("restaurant_id", rest.ID))
	return &rest, nil
}
