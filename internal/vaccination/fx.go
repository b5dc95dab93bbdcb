package vaccination

import (
	"github.com/smallvet/clinica/internal/vaccination/repository"
	"github.com/smallvet/clinica/internal/vaccination/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vaccination.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
