package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           Sync Monitor API
// @version         0.1.0
// @description     Integration sync health, webhook fallback and manual sync triggers.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
