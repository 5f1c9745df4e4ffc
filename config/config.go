package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Defaults DefaultsConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port               string
	Env                string
	LogLevel           string `mapstructure:"log_level"`
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type DefaultsConfig struct {
	AdminPassword     string `mapstructure:"admin_password"`
	AdminEmployeeID   string `mapstructure:"admin_employee_id"`
	TransactionPrefix string `mapstructure:"transaction_prefix"`
	ClinicName        string `mapstructure:"clinic_name"`
	ClinicAddress     string `mapstructure:"clinic_address"`
	ClinicPhone       string `mapstructure:"clinic_phone"`
}

// PricingConfig holds the billing price rules. The lab inference catalog
// itself lives in the lab_tests table; these are the fixed policy constants.
type PricingConfig struct {
	ManualConsultationPrice float64
	SeniorDiscountPercent   float64
	Tolerance               float64
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("DATABASE_URL")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TRANSACTION_PREFIX", "TXN")
	viper.SetDefault("MANUAL_CONSULTATION_PRICE", 350.00)
	viper.SetDefault("SENIOR_DISCOUNT_PERCENT", 20.0)
	viper.SetDefault("AMOUNT_TOLERANCE", 0.01)

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Env:                viper.GetString("SERVER_ENV"),
			LogLevel:           viper.GetString("LOG_LEVEL"),
			JWTSecret:          viper.GetString("JWT_SECRET"),
			JWTExpirationHours: viper.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			URL:      viper.GetString("DATABASE_URL"),
		},
		Defaults: DefaultsConfig{
			AdminPassword:     viper.GetString("ADMIN_PASSWORD"),
			AdminEmployeeID:   viper.GetString("ADMIN_EMPLOYEE_ID"),
			TransactionPrefix: viper.GetString("TRANSACTION_PREFIX"),
			ClinicName:        viper.GetString("CLINIC_NAME"),
			ClinicAddress:     viper.GetString("CLINIC_ADDRESS"),
			ClinicPhone:       viper.GetString("CLINIC_PHONE"),
		},
		Pricing: PricingConfig{
			ManualConsultationPrice: viper.GetFloat64("MANUAL_CONSULTATION_PRICE"),
			SeniorDiscountPercent:   viper.GetFloat64("SENIOR_DISCOUNT_PERCENT"),
			Tolerance:               viper.GetFloat64("AMOUNT_TOLERANCE"),
		},
	}

	log.Printf("Configuration loaded successfully:")
	log.Printf("- Server Port: %s", AppConfig.Server.Port)
	log.Printf("- Server Env: %s", AppConfig.Server.Env)
	log.Printf("- Database Host: %s", AppConfig.Database.Host)
	log.Printf("- Database Name: %s", AppConfig.Database.Name)
	log.Printf("- Database URL: %s", func() string {
		if AppConfig.Database.URL != "" {
			return "SET"
		}
		return "NOT SET"
	}())
	log.Printf("- Clinic Name: %s", AppConfig.Defaults.ClinicName)
}
