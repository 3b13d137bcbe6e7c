package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService          AuthService
	UserService          UserService
	JobService           JobService
	ApplicationService   ApplicationService
	AdminService         AdminService
	UploadService        UploadService
	LifecycleCoordinator LifecycleCoordinator
}
