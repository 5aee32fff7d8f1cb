package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wisefood/internal/config"
	"wisefood/internal/logger"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	username := flag.String("username", "admin", "account username")
	password := flag.String("password", "", "account password (required)")
	name := flag.String("name", "Administrator", "account display name")
	role := flag.String("role", "admin", "account role (owner|admin|agent)")
	demo := flag.Bool("demo", false, "also create a demo household with members")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	logger.New(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}
	if err := db.AutoMigrate(
		&model.Account{},
		&model.Household{},
		&model.HouseholdMember{},
		&model.MemberProfile{},
		&model.MealPlan{},
		&model.MealPlanAssignment{},
	); err != nil {
		log.Fatal("db migrate failed: ", err)
	}

	account, err := ensureAccount(db, *username, *password, *name, *role)
	if err != nil {
		log.Fatal("account init failed: ", err)
	}
	logger.Info("account ready", "username", account.Username, "role", account.Role)

	if *demo {
		if err := seedDemoHousehold(db, account.ID); err != nil {
			log.Fatal("demo seed failed: ", err)
		}
	}

	logger.Info("=== all done ===")
}

func ensureAccount(db *gorm.DB, username, password, name, role string) (*model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var account model.Account
	err = db.Where("username = ?", username).First(&account).Error
	if err == nil {
		account.Password = string(hash)
		account.Name = name
		account.Role = role
		return &account, db.Save(&account).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = model.Account{
		Username: username,
		Password: string(hash),
		Name:     name,
		Role:     role,
	}
	return &account, db.Create(&account).Error
}

func seedDemoHousehold(db *gorm.DB, ownerID string) error {
	var count int64
	if err := db.Model(&model.Household{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("demo household already present, skipping")
		return nil
	}

	region := "el"
	households := service.NewHouseholdService(db, nil)
	household, err := households.Create(context.Background(), ownerID, model.HouseholdCreateRequest{
		Name:   "Demo Household",
		Region: &region,
		Members: []model.MemberCreateRequest{
			{
				Name:     "Alex",
				AgeGroup: "adult",
				Profile: &model.ProfileUpdateRequest{
					DietaryGroups: []string{"vegetarian"},
				},
			},
			{
				Name:     "Sam",
				AgeGroup: "child",
			},
		},
	})
	if err != nil {
		return err
	}
	logger.Info("demo household created", "id", household.ID, "members", len(household.Members))
	return nil
}
