package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"
)

const (
	// READY the server is listening
	READY uint8 = iota + 1
	// CLOSED the server stopped
	CLOSED
)

// Server the admin HTTP server
type Server struct {
	http     *http.Server
	listener net.Listener
	event    chan uint8
	ready    bool
	mu       sync.RWMutex
}

// Option the listening settings
type Option struct {
	Host    string
	Port    int // 0 picks a free port
	Timeout time.Duration
}

// Start listen and serve the router in the background
func Start(router http.Handler, option Option) (*Server, error) {

	addr := net.JoinHostPort(option.Host, fmt.Sprintf("%d", option.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &Server{
		http: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      option.Timeout,
		},
		listener: listener,
		event:    make(chan uint8, 2),
	}

	srv.setReady(true)
	srv.event <- READY
	log.Info("[Server] listening on %s", listener.Addr().String())

	go func() {
		err := srv.http.Serve(listener)
		srv.setReady(false)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("[Server] %s", err.Error())
		}
		srv.event <- CLOSED
	}()

	return srv, nil
}

// Stop shut the server down, waiting for the running requests until ctx is done
func Stop(ctx context.Context, srv *Server) error {
	if srv == nil {
		return nil
	}
	err := srv.http.Shutdown(ctx)
	log.Info("[Server] stopped")
	return err
}

// Event the server events, READY then CLOSED
func (srv *Server) Event() <-chan uint8 {
	return srv.event
}

// Ready reports whether the server is listening
func (srv *Server) Ready() bool {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return srv.ready
}

// Port the listening port
func (srv *Server) Port() (int, error) {
	addr, ok := srv.listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("server is not listening on tcp")
	}
	return addr.Port, nil
}

func (srv *Server) setReady(ready bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.ready = ready
}

// Router the admin API routes
func Router(deps *Dependencies, allowFrom []string) *gin.Engine {
	router := gin.New()
	router.Use(Middlewares...)
	router.Use(guardCrossOrigin(allowFrom))

	api := &API{deps: deps}
	router.GET("/healthz", api.health)
	router.GET("/metrics", gin.WrapH(deps.metrics()))

	admin := router.Group("/api/admin")
	admin.POST("/login", api.login)
	admin.POST("/logout", api.logout)
	admin.GET("/me", guardAdmin(deps.Authorizer), api.me)
	admin.GET("/export", guardAdmin(deps.Authorizer), api.export)
	return router
}
