package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v3"
)

type RouterConfig struct {
	AllowedOrigins []string
	JWTSecret      string
	ICEServers     []webrtc.ICEServer
}

func SetupRouter(
	cfg RouterConfig,
	authController *AuthController,
	meetingController *MeetingController,
	userController *UserController,
	wsController *WSController,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Set-Cookie"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := AuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.GET("/me", authRequired, authController.Me)

	users := api.Group("/users", authRequired)
	users.GET("/:userID", userController.GetUser)

	meetings := api.Group("/meetings", authRequired)
	meetings.POST("/create", meetingController.CreateMeeting)
	meetings.POST("/schedule", meetingController.ScheduleMeeting)
	meetings.GET("/user/upcoming", meetingController.UpcomingMeetings)
	meetings.GET("/user/history", meetingController.MeetingHistory)
	meetings.GET("/:meetingID", meetingController.GetMeeting)
	meetings.POST("/:meetingID/join", meetingController.JoinMeeting)
	meetings.PUT("/:meetingID/permissions", meetingController.UpdatePermissions)
	meetings.POST("/:meetingID/end", meetingController.EndMeeting)
	meetings.POST("/:meetingID/activate", meetingController.ActivateMeeting)
	meetings.POST("/:meetingID/kick", meetingController.KickParticipant)
	meetings.GET("/:meetingID/chat", meetingController.ChatHistory)
	meetings.DELETE("/:meetingID", meetingController.DeleteMeeting)

	api.GET("/webrtc/ice-servers", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"success": true, "iceServers": cfg.ICEServers})
	})

	router.GET("/ws", authRequired, wsController.Connect)

	return router
}
