package server

import (
	"github.com/labstack/echo/v4"

	"github.com/prepod2003/calorai-calc-ai/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	mealHandler *handlers.MealHandler,
	exportHandler *handlers.ExportHandler,
	dishHandler *handlers.DishHandler,
	profileHandler *handlers.ProfileHandler,
	statsHandler *handlers.StatsHandler,
	settingsHandler *handlers.SettingsHandler,
	aiHandler *handlers.AIHandler,
	notificationHandler *handlers.NotificationHandler,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	api.POST("/meals", mealHandler.RecordMeal)
	api.GET("/history", mealHandler.History)
	api.GET("/history/export/csv", exportHandler.ExportCSV)
	api.GET("/history/export/json", exportHandler.ExportJSON)
	api.GET("/history/:date", mealHandler.Day)
	api.DELETE("/history/:date", mealHandler.ClearDay)
	api.DELETE("/history/:date/meals/:mealId", mealHandler.RemoveMeal)

	dishes := api.Group("/dishes")
	dishes.GET("", dishHandler.List)
	dishes.POST("", dishHandler.Create)
	dishes.DELETE("/:id", dishHandler.Delete)

	profile := api.Group("/profile")
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.POST("/goals", profileHandler.GenerateGoals, aiRateLimiter)

	stats := api.Group("/stats")
	stats.GET("/overview", statsHandler.Overview)

	settings := api.Group("/settings/api")
	settings.GET("", settingsHandler.Get)
	settings.PUT("/provider", settingsHandler.SetProvider)
	settings.PUT("/providers/:id", settingsHandler.UpdateProvider)

	notifications := api.Group("/notifications")
	notifications.GET("/stream", notificationHandler.Stream)

	aiGroup := api.Group("/ai", aiRateLimiter)
	aiGroup.POST("/analyze-text", aiHandler.AnalyzeText)
	aiGroup.POST("/analyze-image", aiHandler.AnalyzeImage)
	aiGroup.POST("/ingredient", aiHandler.LookupIngredient)
	aiGroup.POST("/summary", aiHandler.DailySummary)
	aiGroup.GET("/models", aiHandler.ListModels)
	aiGroup.GET("/requests", aiHandler.ListRequests)
}
