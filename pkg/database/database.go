package database

import (
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
				cfg.User,
				cfg.Password,
				cfg.Host,
				cfg.Port,
				cfg.DBName,
				cfg.Charset,
				cfg.ParseTime,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	if err := SeedAssessmentTypes(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Models lists every table owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.AssessmentType{},
		&model.SkillCategory{},
		&model.Dimension{},
		&model.DimensionTrait{},
		&model.PersonalityType{},
		&model.PersonalityTrait{},
		&model.HollandCode{},
		&model.ValueCategory{},
		&model.Career{},
		&model.CareerCategory{},
		&model.CareerCategoryLink{},
		&model.CareerCategoryResponsibility{},
		&model.CareerPersonalityType{},
		&model.CareerValueCategory{},
		&model.DimensionCareer{},
		&model.School{},
		&model.Faculty{},
		&model.Major{},
		&model.SchoolMajor{},
		&model.CareerMajor{},
		&model.Test{},
		&model.Response{},
		&model.AssessmentScore{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

var defaultAssessmentTypes = []model.AssessmentType{
	{Name: string(model.CategoryPersonality), Title: "Personality Assessment", Description: "Four-letter personality type from eight dichotomy scores."},
	{Name: string(model.CategoryInterest), Title: "Interest Assessment", Description: "RIASEC interest profile and Holland code."},
	{Name: string(model.CategorySkill), Title: "Skill Assessment", Description: "Self-reported skill levels grouped by skill category."},
	{Name: string(model.CategoryLearningStyle), Title: "Learning Style Assessment", Description: "Preferred learning modalities and study techniques."},
	{Name: string(model.CategoryValue), Title: "Value Assessment", Description: "Work values ranked by importance."},
}

// SeedAssessmentTypes 默认的测评类型（已存在则跳过）
func SeedAssessmentTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.AssessmentType{}).Count(&count).Error; err != nil {
		// tables not migrated yet
		return nil
	}
	if count > 0 {
		return nil
	}
	for _, at := range defaultAssessmentTypes {
		at := at
		if err := db.Create(&at).Error; err != nil {
			return err
		}
	}
	return nil
}
