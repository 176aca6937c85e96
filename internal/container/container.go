package container

import (
	app "recognition-bot/internal/application"
	"recognition-bot/internal/domain/port"
)

type Container struct {
	UserService        *app.UserService
	RecognitionService *app.RecognitionService
}

// Deps внешние адаптеры; Recognitions и Fingerprinter необязательны
type Deps struct {
	Users         port.UserRepository
	Recognitions  port.RecognitionRepository
	Classifier    port.Classifier
	Images        port.ImageStore
	Fingerprinter port.Fingerprinter
}

func New(deps Deps, policy app.Policy) *Container {
	userService := app.NewUserService(deps.Users)
	recognitionService := app.NewRecognitionService(
		deps.Classifier,
		deps.Images,
		deps.Recognitions,
		deps.Fingerprinter,
		policy,
	)

	return &Container{
		UserService:        userService,
		RecognitionService: recognitionService,
	}
}
