package main

import (
	"log"

	"irs-backend/internal/api"
)

// @title IRS Offshore Services Portal API
// @version 1.0
// @description Клиентский и административный портал сервисной компании: заявки на услуги, проекты, контракты, документы

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")
	api.StartServer()
	log.Println("App terminated")
}
