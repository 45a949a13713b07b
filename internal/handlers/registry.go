package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	MarketHandler      *MarketHandler
	BusinessHandler    *BusinessHandler
	ApplicationHandler *ApplicationHandler
	ReviewHandler      *ReviewHandler
	AttendanceHandler  *AttendanceHandler
	FavoriteHandler    *FavoriteHandler
	DashboardHandler   *DashboardHandler
	UploadHandler      *UploadHandler
}
