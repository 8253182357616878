package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors.Default())

	r.POST("/createUser", s.createUser)
	r.POST("/signin", s.signIn)
	r.GET("/getLocalWeather", s.localWeather)
	r.GET("/healthz", s.health)

	authorized := r.Group("/", s.authRequired())
	authorized.GET("/tokenvalid/", s.tokenValid)
	authorized.GET("/policy-templates", s.policyTemplates)
	authorized.POST("/policies", s.createPolicy)
	authorized.GET("/policies", s.listPolicies)
	authorized.PUT("/wallet", s.updateWallet)

	return r
}
