package main

import "taskcontrol/internal/app"

// @title           TaskControl API
// @version         1.0
// @description     Project and task tracking backend: projects, Kanban boards, tasks with activity history, comments and labels.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
