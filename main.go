package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/confaro/confaro-api/cmd/app"
)

// @title           Confaro Ticketing API
// @description     Ticketing subsystem of the Confaro conference management application.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
