package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/edoctorat/backend/config"
	"github.com/edoctorat/backend/controllers"
	"github.com/edoctorat/backend/database"
	"github.com/edoctorat/backend/mailer"
	"github.com/edoctorat/backend/middleware"
	"github.com/edoctorat/backend/models"
	"github.com/edoctorat/backend/repository"
	"github.com/edoctorat/backend/services"
	"github.com/edoctorat/backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	professeurs := repository.NewProfesseurRepository(db)
	candidats := repository.NewCandidatRepository(db)

	mail := mailer.New(cfg)
	userSvc := services.NewUserService(users, groups, professeurs, candidats, tokens, mail)
	googleSvc := services.NewGoogleAuthService(cfg, users, groups, professeurs, tokens)

	if err := seedBaseline(ctx, cfg, userSvc, groups); err != nil {
		log.Fatal(err)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	{
		api.POST("/login", controllers.Login(userSvc))
		api.POST("/login_candidat", controllers.LoginWithGroup(userSvc, models.GroupCandidat))
		api.POST("/login_scolarite", controllers.LoginScolarite(userSvc))
		api.POST("/login_professeur", controllers.LoginWithGroup(userSvc, models.GroupProfesseur))
		api.POST("/login_directeur_ced", controllers.LoginWithGroup(userSvc, models.GroupDirecteurCed))
		api.POST("/login_directeur_pole", controllers.LoginWithGroup(userSvc, models.GroupDirecteurPole))
		api.POST("/login_directeur_labo", controllers.LoginWithGroup(userSvc, models.GroupDirecteurLabo))

		api.POST("/verify-is-prof", controllers.VerifyIsProf(googleSvc))
		api.POST("/token/refresh", controllers.RefreshToken(userSvc))

		api.POST("/register/candidat", controllers.RegisterCandidat(userSvc))
		api.POST("/verify-email", controllers.VerifyEmail(userSvc))
		api.POST("/resend-verification", controllers.ResendVerification(userSvc))
		api.GET("/check-verification-status/:email", controllers.CheckVerificationStatus(userSvc))

		api.POST("/request-password-reset", controllers.RequestPasswordReset(userSvc))
		api.PATCH("/perform-password-reset", controllers.PerformPasswordReset(userSvc))

		api.GET("/get-user-info/:role", controllers.GetUserInfo(userSvc))
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))
	{
		photoValidator := utils.NewImageValidator(5)
		authed.POST("/professeur/photo",
			middleware.RequireGroup(models.GroupProfesseur),
			controllers.UploadProfessorPhoto(cfg, photoValidator, professeurs))
	}

	// Server listens on 0.0.0.0:8080 by default
	r.Run()
}

// seedBaseline creates the platform groups and, when configured, the
// registrar account.
func seedBaseline(ctx context.Context, cfg config.Config, svc *services.UserService, groups repository.GroupRepository) error {
	for _, name := range []string{
		models.GroupCandidat,
		models.GroupProfesseur,
		models.GroupScolarite,
		models.GroupDirecteurCed,
		models.GroupDirecteurPole,
		models.GroupDirecteurLabo,
	} {
		if err := groups.Ensure(ctx, name); err != nil {
			return err
		}
	}

	if cfg.ScolariteEmail == "" || cfg.ScolaritePassword == "" {
		log.Println("SCOLARITE_EMAIL/SCOLARITE_PASSWORD not set, skipping registrar seeding")
		return nil
	}
	return svc.CreateUserWithGroup(ctx, cfg.ScolariteEmail, cfg.ScolaritePassword,
		"Scolarite", "Service", models.GroupScolarite, true)
}
