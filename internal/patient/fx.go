package patient

import (
	"github.com/smallvet/clinica/internal/patient/repository"
	"github.com/smallvet/clinica/internal/patient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
