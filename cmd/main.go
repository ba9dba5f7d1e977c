package main

import (
	"context"

	"github.com/rishikeshvarma/NutriVision/config"
	"github.com/rishikeshvarma/NutriVision/controllers"
	"github.com/rishikeshvarma/NutriVision/logger"
	"github.com/rishikeshvarma/NutriVision/routes"
	"github.com/rishikeshvarma/NutriVision/services"
	"github.com/rishikeshvarma/NutriVision/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	log := logger.L()

	config.InitDB(log)
	st := store.NewGormStore(config.DB)

	hub := services.NewRealtimeHub()
	gemini := services.NewGeminiService()

	dailyLogSvc := services.NewDailyLogService(st, hub, log)
	streakSvc := services.NewStreakService(st, hub, log)
	planSvc := services.NewPlanService(st, gemini, log)
	profileSvc := services.NewProfileService(st, planSvc, dailyLogSvc, log)

	// Push every store change out to connected clients, and re-run the
	// streak engine whenever the log set changes.
	st.Subscribe(func(userID uint, kind, key string) {
		hub.NotifyChange(userID, kind, key)
		if kind == store.KindDailyLog {
			if _, err := streakSvc.Update(context.Background(), userID); err != nil {
				log.Warn("streak update failed", zap.Uint("userID", userID), zap.Error(err))
			}
		}
	})

	// The two-day streak window shifts at midnight even without mutations.
	c := cron.New()
	c.AddFunc("5 0 * * *", func() {
		log.Info("running streak rollover")
		streakSvc.UpdateAll(context.Background())
	})
	c.Start()

	r := routes.SetupRouter(routes.Controllers{
		Profile:  controllers.NewProfileController(profileSvc, dailyLogSvc),
		Logs:     controllers.NewLogController(dailyLogSvc),
		Plans:    controllers.NewPlanController(planSvc, dailyLogSvc),
		Scan:     controllers.NewScanController(gemini, dailyLogSvc),
		Streak:   controllers.NewStreakController(streakSvc),
		Realtime: controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
