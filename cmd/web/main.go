// @title           Kandu API
// @version         1.0
// @description     Маркетплейс строительных и бытовых работ: заказы, отклики, переписка, репутация.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"kandu_backend/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
