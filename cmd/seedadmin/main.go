package main

import (
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"rutapay/internal/config"
	"rutapay/internal/models"
)

// Seeds the first admin account. Usage:
//
//	go run ./cmd/seedadmin -email admin@rutapay.local -password secret -name "Admin"
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Administrador", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	config.InitDB()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("could not hash password: %v", err)
	}

	var existing models.User
	if err := config.DB.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("a user with email %s already exists (id=%d)", *email, existing.ID)
	}

	admin := models.User{
		Name:     *name,
		Email:    *email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatalf("could not create admin: %v", err)
	}

	log.Printf("admin account created: id=%d email=%s", admin.ID, admin.Email)
}
