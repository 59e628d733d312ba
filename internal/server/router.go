package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine serving the quiz review API.
func NewRouter(handler *QuizHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		api.POST("/answers", handler.HandleSubmitAnswer)
		api.GET("/questions/due", handler.HandleGetDueQuestions)
		api.GET("/progress", handler.HandleGetProgress)
	}

	return router
}
