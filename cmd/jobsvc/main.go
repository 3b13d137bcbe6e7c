// Сервис вакансий за gateway. Личность берется из X-USER-ID/X-USER-ROLE,
// поэтому порт сервиса не должен быть доступен снаружи.
package main

import "jobportal_backend/internal/app"

func main() {
	app.RunService()
}
