package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
)

// Middlewares the middlewares every route runs
var Middlewares = []gin.HandlerFunc{
	Recovery,
	RequestID,
	AccessLog,
}

// RequestID tag the request with an id, reusing the caller's X-Request-Id
func RequestID(c *gin.Context) {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("__rid", id)
	c.Header("X-Request-Id", id)
	c.Next()
}

// AccessLog log one line per request
func AccessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.With(log.F{"rid": c.GetString("__rid")}).Info("[HTTP] %s %s %d %s",
		c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).String())
}

// Recovery answer 500 when a handler panics
func Recovery(c *gin.Context) {
	defer func() {
		if err := exception.Catch(recover()); err != nil {
			log.Error("[HTTP] %s %s panic: %s", c.Request.Method, c.Request.URL.Path, err.Error())
			c.AbortWithStatusJSON(500, gin.H{"error": "Internal Server Error"})
		}
	}()
	c.Next()
}
