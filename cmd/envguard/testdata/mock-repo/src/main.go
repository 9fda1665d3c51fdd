package main

import (
	"fmt"
	"os"
)

func main() {
	apiKey := os.Getenv("API_KEY")
	dbUrl := os.Getenv("DATABASE_URL")
	port := os.Getenv("PORT")
	fmt.Println(apiKey, dbUrl, port)
}
