package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	MarketService      MarketService
	BusinessService    BusinessService
	ApplicationService ApplicationService
	ReviewService      ReviewService
	AttendanceService  AttendanceService
	FavoriteService    FavoriteService
	DashboardService   DashboardService
	UploadService      UploadService
}
