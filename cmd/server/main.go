package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wisefood/internal/cache"
	"wisefood/internal/config"
	"wisefood/internal/handler"
	"wisefood/internal/logger"
	"wisefood/internal/middleware"
	"wisefood/internal/model"
	"wisefood/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.New(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(
		&model.Account{},
		&model.Household{},
		&model.HouseholdMember{},
		&model.MemberProfile{},
		&model.MealPlan{},
		&model.MealPlanAssignment{},
	); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	rdb := cfg.NewRedisClient()
	planCache := cache.NewPlanCache(rdb)
	if rdb != nil {
		slog.Info("plan cache enabled", "addr", rdb.Options().Addr)
	}

	authSvc := service.NewAuthService(db)
	householdSvc := service.NewHouseholdService(db, planCache)
	memberSvc := service.NewMemberService(db, planCache)
	planSvc := service.NewMealPlanService(db, memberSvc, planCache)

	timeout := cfg.ServiceTimeout()
	foodChat := service.NewFoodChat(cfg.Services.FoodChatURL, timeout)
	foodScholar := service.NewFoodScholar(cfg.Services.FoodScholarURL, timeout)
	recipeWrangler := service.NewRecipeWrangler(cfg.Services.RecipeWranglerURL, timeout)

	access := handler.NewAccess(householdSvc, memberSvc)
	authH := handler.NewAuthHandler(authSvc, []byte(cfg.Auth.Secret), cfg.TokenTTL())
	householdH := handler.NewHouseholdHandler(householdSvc, access)
	memberH := handler.NewMemberHandler(memberSvc, access)
	planH := handler.NewMealPlanHandler(planSvc, access)
	chatH := handler.NewFoodChatHandler(foodChat, access)
	scholarH := handler.NewFoodScholarHandler(foodScholar)
	recipeH := handler.NewRecipeWranglerHandler(recipeWrangler)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)

	api := r.Group("/api/v1", middleware.JWTAuth([]byte(cfg.Auth.Secret)))

	api.POST("/households", householdH.Create)
	api.GET("/households", householdH.List)
	api.GET("/households/mine", householdH.Mine)
	api.GET("/households/:household_id", householdH.Get)
	api.PATCH("/households/:household_id", householdH.Update)
	api.DELETE("/households/:household_id", householdH.Delete)

	api.POST("/members", memberH.Create)
	api.GET("/members", memberH.List)
	api.GET("/members/:member_id", memberH.Get)
	api.PATCH("/members/:member_id", memberH.Update)
	api.DELETE("/members/:member_id", memberH.Delete)
	api.PUT("/members/:member_id/profile", memberH.UpsertProfile)
	api.GET("/members/:member_id/profile", memberH.GetProfile)
	api.DELETE("/members/:member_id/profile", memberH.DeleteProfile)

	api.POST("/members/:member_id/meal-plans", planH.Store)
	api.GET("/members/:member_id/meal-plans", planH.Get)
	api.DELETE("/members/:member_id/meal-plans/:plan_id", planH.Revoke)

	api.GET("/foodchat/status", chatH.Status)
	api.POST("/foodchat/members/:member_id/sessions", chatH.CreateSession)
	api.GET("/foodchat/members/:member_id/sessions", chatH.MemberSessions)
	api.GET("/foodchat/sessions/:session_id", chatH.GetSession)
	api.DELETE("/foodchat/sessions/:session_id", chatH.DeleteSession)
	api.POST("/foodchat/sessions/:session_id/messages", chatH.SendMessage)
	api.GET("/foodchat/sessions/:session_id/messages", chatH.GetMessages)
	api.GET("/foodchat/sessions/:session_id/meal-plans", chatH.SessionMealPlans)

	api.GET("/foodscholar/status", scholarH.Status)
	api.POST("/foodscholar/qa/ask", scholarH.Ask)
	api.GET("/foodscholar/qa/models", scholarH.Models)
	api.GET("/foodscholar/qa/questions", scholarH.SuggestedQuestions)
	api.GET("/foodscholar/qa/tips", scholarH.Tips)
	api.POST("/foodscholar/search/summarize", scholarH.Summarize)

	api.GET("/recipewrangler/status", recipeH.Status)
	api.GET("/recipewrangler/recipes/:recipe_id", recipeH.Get)
	api.POST("/recipewrangler/recipes/search", recipeH.Search)
	api.POST("/recipewrangler/recipes/profile", recipeH.Profile)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
