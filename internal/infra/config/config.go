// internal/infra/config/config.go
package config

import "os"

// Config holds all environment-driven settings for the API service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project used to verify customer/admin ID tokens.
	FirebaseProjectID string

	// Postgres reporting archive. Empty host disables the archive and the
	// admin sales report falls back to empty results.
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// SendGrid. When the API key env is empty, SENDGRID_SECRET_NAME may name
	// a Secret Manager secret holding it. Both empty disables mail.
	SendGridAPIKey     string
	SendGridSecretName string
	SendGridFrom       string
}

// Load reads environment variables and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "simo-cosmetics")

	cfg := &Config{
		Port:                     getenvDefault("PORT", "8080"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getenvDefault("POSTGRES_PORT", "5432"),
		PostgresUser:     getenvDefault("POSTGRES_USER", "simo"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getenvDefault("POSTGRES_DB", "simo_reports"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		SendGridFrom:       getenvDefault("SENDGRID_FROM", "no-reply@simo-cosmetics.ma"),
	}

	return cfg
}

// PostgresEnabled reports whether the reporting archive is configured.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresHost != ""
}

// MailEnabled reports whether any SendGrid credential source is configured.
func (c *Config) MailEnabled() bool {
	return c.SendGridAPIKey != "" || c.SendGridSecretName != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
