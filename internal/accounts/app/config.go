package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config is read once at startup and handed to New. Nothing else in the
// process reads the environment.
type Config struct {
	JWTSecret  string        `env:"ACCOUNTS_JWT_SECRET,required,notEmpty,unset"`
	UsersTable string        `env:"ACCOUNTS_USERS_TABLE"`
	Issuer     string        `env:"ACCOUNTS_ISSUER"`
	TokenTTL   time.Duration `env:"ACCOUNTS_TOKEN_TTL" envDefault:"1h"`
	BcryptCost int           `env:"ACCOUNTS_BCRYPT_COST" envDefault:"8"`

	StoreDriver  string `env:"ACCOUNTS_STORE_DRIVER" envDefault:"sqlite"`
	DatabaseFile string `env:"ACCOUNTS_DATABASE_FILE" envDefault:"accounts.db"`

	AWSRegion           string `env:"AWS_REGION"`
	DynamoDBEndpoint    string `env:"ACCOUNTS_DYNAMODB_ENDPOINT"`
	DynamoDBCreateTable bool   `env:"ACCOUNTS_DYNAMODB_CREATE_TABLE"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the process environment, after merging a .env file from
// the working directory if there is one.
func LoadConfig() (Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("ACCOUNTS_DATABASE_FILE must be set for the sqlite driver"))
		}
	case DriverDynamoDB:
		if c.UsersTable == "" {
			errs = append(errs, errors.New("ACCOUNTS_USERS_TABLE must be set for the dynamodb driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ACCOUNTS_STORE_DRIVER %q is not one of sqlite, dynamodb", c.StoreDriver))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("ACCOUNTS_TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("ACCOUNTS_BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}
