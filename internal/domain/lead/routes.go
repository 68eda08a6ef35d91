package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the lead endpoints under r (normally /v1).
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		// Collection routes answer with and without the trailing slash.
		leads.GET("", handler.ListLeads)
		leads.GET("/", handler.ListLeads)
		leads.POST("", handler.CreateLead)
		leads.POST("/", handler.CreateLead)
		leads.GET("/stats", handler.GetStats)
		leads.GET("/:id", handler.GetLead)
		leads.PUT("/:id", handler.UpdateLead)
		leads.DELETE("/:id", handler.DeleteLead)
	}
}
