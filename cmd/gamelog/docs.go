package main

//go:generate swag init -g cmd/gamelog/main.go -o docs

// @title           Game Log API
// @version         0.1.0
// @description     Console log ingestion and retrieval for game clients and servers.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer API key, e.g. "Bearer <key>"
