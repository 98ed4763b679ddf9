package main

import (
	"fmt"
	"log"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dsn"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var requests []ds.ServiceRequest
	err = db.Preload("Client").Find(&requests).Error
	if err != nil {
		log.Fatal("Failed to get requests:", err)
	}

	fmt.Println("Service requests in database:")
	for _, request := range requests {
		fmt.Printf("ID: %d, Type: %s, Status: %s, Client: %s\n",
			request.ID, request.ServiceType, request.Status, request.Client.Login)
	}

	var projects []ds.Project
	err = db.Find(&projects).Error
	if err != nil {
		log.Fatal("Failed to get projects:", err)
	}

	fmt.Println("Projects in database:")
	for _, project := range projects {
		fmt.Printf("ID: %d, Name: %s, Tracking: %s, Setup: %s\n",
			project.ID, project.Name, project.TrackingCode, project.SetupStatus)
	}
}
