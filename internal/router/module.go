package router

import "github.com/gin-gonic/gin"

// Module registers a group of routes on the API RouterGroup (/api).
// Modules are built from adapter.ServiceOptions after startup hooks have run.
type Module interface {
	Register(rg *gin.RouterGroup)
}
