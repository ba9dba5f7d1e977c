package routes

import (
	"github.com/rishikeshvarma/NutriVision/controllers"
	"github.com/rishikeshvarma/NutriVision/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Profile  *controllers.ProfileController
	Logs     *controllers.LogController
	Plans    *controllers.PlanController
	Scan     *controllers.ScanController
	Streak   *controllers.StreakController
	Realtime *controllers.RealtimeController
}

func SetupRouter(c Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", c.Profile.GetProfile)
		user.PUT("/profile", c.Profile.UpdateProfile)
		user.GET("/goals", c.Profile.GetGoals)
	}

	logs := r.Group("/logs")
	logs.Use(middlewares.AuthMiddleware())
	{
		logs.GET("", c.Logs.ListLogs)
		logs.GET("/today", c.Logs.TodayLog)
		logs.GET("/:date", c.Logs.LogByDate)
		logs.POST("/meals", c.Logs.LogMeal)
		logs.DELETE("/meals/:mealID/items/:itemID", c.Logs.RemoveFoodItem)
		logs.POST("/water", c.Logs.AddWater)
	}

	plans := r.Group("/plans")
	plans.Use(middlewares.AuthMiddleware())
	{
		plans.GET("", c.Plans.ListPlans)
		plans.GET("/latest", c.Plans.LatestPlan)
		plans.POST("/generate", c.Plans.GeneratePlan)
		plans.POST("/ensure", c.Plans.EnsurePlan)
		plans.DELETE("/:id", c.Plans.DeletePlan)
	}

	scan := r.Group("/scan")
	scan.Use(middlewares.AuthMiddleware())
	{
		scan.POST("", c.Scan.RecognizeFood)
		scan.POST("/log", c.Scan.LogRecognized)
	}

	protected := r.Group("")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/streak", c.Streak.GetStreak)
		protected.GET("/ws/events", c.Realtime.EventsWS)
	}

	return r
}
