// @title           Job Portal API
// @version         1.0
// @description     API портала вакансий: вакансии, отклики, пользователи.
// @host            localhost:8080
// @BasePath        /api/v1

package main

import "jobportal_backend/internal/app"

func main() {
	app.Run()
}
