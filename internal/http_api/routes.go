package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/api/v1/connection", s.connection)
	s.router.GET("/api/v1/signs/:sign/wishes", s.wishesForSign)
	s.router.GET("/api/v1/leaderboard", s.leaderboard)

	s.router.POST("/api/v1/connect", s.connect)
	s.router.POST("/api/v1/disconnect", s.disconnect)
	s.router.POST("/api/v1/reload", s.reload)
	s.router.POST("/api/v1/wishes", s.submitWish)
	s.router.POST("/api/v1/wishes/:id/like", s.likeWish)
	s.router.POST("/api/v1/wishes/:id/tip", s.tipWish)
}
