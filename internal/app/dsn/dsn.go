package dsn

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// FromEnv собирает строку подключения к Postgres из переменных окружения
func FromEnv() string {
	_ = godotenv.Load()

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)
}
